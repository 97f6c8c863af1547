package cmd

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show congestion status",
	Run: func(cmd *cobra.Command, args []string) {
		showStatus()
	},
}

func showStatus() {
	for _, path := range []string{"/v1/congestion", "/v1/shards"} {
		resp, err := http.Get(url + path)
		if err != nil {
			log.Fatal(err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("%s: %s\n", path, body)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
