// Package main runs ptagctl, the dashboard's maintenance CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tcld/ptagdash/internal/cmd/ptagctl"
	"github.com/tcld/ptagdash/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := ptagctl.NewRootCommand(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		config.Exit("ptagctl", err)
	}
}
