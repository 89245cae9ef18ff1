package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/protokoll-app/protokoll/internal/cli"
)

// Populated by goreleaser via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit, date)
	cli.Execute(ctx)
}
