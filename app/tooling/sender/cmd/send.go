package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/shardcraft/ledger/foundation/sharding/receipt"
	"github.com/spf13/cobra"
)

var (
	from   string
	origin int
	dest   int
	gasAmt uint64
	hops   []int
	data   []byte
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run: func(cmd *cobra.Command, args []string) {
		sendWithDetails()
	},
}

func sendWithDetails() {
	tx := receipt.Tx{
		From:   from,
		Origin: receipt.ShardID(origin),
		Dest:   receipt.ShardID(dest),
		Gas:    gasAmt,
		Data:   data,
	}
	for _, hop := range hops {
		tx.Hops = append(tx.Hops, receipt.ShardID(hop))
	}

	payload, err := json.Marshal(tx)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(payload))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %s\n", resp.Status, body)
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "sender", "Name tag for the submitter.")
	sendCmd.Flags().IntVarP(&origin, "origin", "o", 0, "Shard receiving the submission.")
	sendCmd.Flags().IntVarP(&dest, "dest", "t", 0, "Destination shard for the first hop.")
	sendCmd.Flags().Uint64VarP(&gasAmt, "gas", "g", 10, "Gas cost estimate.")
	sendCmd.Flags().IntSliceVarP(&hops, "hops", "j", nil, "Follow-on hop shards.")
	sendCmd.Flags().BytesHexVarP(&data, "data", "d", nil, "Data to send.")
}
