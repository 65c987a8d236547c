// Package main provides the portal CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ceu-caminhodomar/portal/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
