// Package main provides the entry point for the falcon2jira CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jarhead00/falcon2jira/cmd/falcon2jira/cmd"
	"github.com/Jarhead00/falcon2jira/pkg/logging"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// First SIGINT/SIGTERM cancels the context so the run finishes its
	// current alert and stops; a second signal kills the process.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := cmd.NewRootCommand(cmd.Version{Version: version, Commit: commit, Date: date})
	if err := root.ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}
