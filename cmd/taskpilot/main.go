// Package main provides the entry point for the taskpilot CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskpilot/taskpilot/internal/cli"
)

// Build information set via ldflags at release time.
//
//nolint:gochecknoglobals // ldflags targets must be package-level vars
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	// Ctrl-C cancels in-flight requests instead of killing the process hard.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	cli.CloseLogFile()

	if err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}
