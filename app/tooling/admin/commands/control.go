package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Round asks the node to run a block round immediately.
func Round(url string) error {
	return post(fmt.Sprintf("%s/v1/node/round", url))
}

// Pause stops the node's round schedule.
func Pause(url string) error {
	return post(fmt.Sprintf("%s/v1/node/pause", url))
}

// Resume restarts the node's round schedule.
func Resume(url string) error {
	return post(fmt.Sprintf("%s/v1/node/resume", url))
}

func post(url string) error {
	resp, err := http.Post(url, "application/json", &bytes.Buffer{})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	fmt.Println(result.Status)

	return nil
}
