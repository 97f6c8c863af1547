package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Status prints the node's current round and schedule state.
func Status(url string) error {
	resp, err := http.Get(fmt.Sprintf("%s/v1/node/status", url))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var status struct {
		Round  uint64 `json:"round"`
		Paused bool   `json:"paused"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return err
	}

	fmt.Printf("Round:  %d\n", status.Round)
	fmt.Printf("Paused: %v\n", status.Paused)

	return nil
}
