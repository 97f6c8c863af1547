package main

import "github.com/shardcraft/ledger/app/tooling/sender/cmd"

func main() {
	cmd.Execute()
}
