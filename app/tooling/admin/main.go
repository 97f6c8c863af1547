// This program performs administrative tasks against a running shard node.
package main

import (
	"fmt"
	"os"

	"github.com/shardcraft/ledger/app/tooling/admin/commands"
	"github.com/shardcraft/ledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

// defaultURL is the private API of a locally running shard node.
const defaultURL = "http://localhost:9280"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	url := defaultURL
	if v := os.Getenv("SHARD_ADMIN_URL"); v != "" {
		url = v
	}

	return processCommands(os.Args, url)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args []string, url string) error {
	if len(args) < 2 {
		return fmt.Errorf("must specify a command: status, round, pause, resume")
	}

	switch args[1] {
	case "status":
		if err := commands.Status(url); err != nil {
			return fmt.Errorf("getting node status: %w", err)
		}
	case "round":
		if err := commands.Round(url); err != nil {
			return fmt.Errorf("signaling round: %w", err)
		}
	case "pause":
		if err := commands.Pause(url); err != nil {
			return fmt.Errorf("pausing rounds: %w", err)
		}
	case "resume":
		if err := commands.Resume(url); err != nil {
			return fmt.Errorf("resuming rounds: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q", args[1])
	}

	return nil
}
