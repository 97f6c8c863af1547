// Package cmd contains the sender tooling for submitting transactions to a
// running shard node.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var url string

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8280", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:   "sender",
	Short: "Submit transactions to a shard node",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
