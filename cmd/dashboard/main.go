// Package main starts the EA Ptag monitoring dashboard.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	dashboardcmd "github.com/tcld/ptagdash/internal/cmd/dashboard"
	"github.com/tcld/ptagdash/internal/platform/config"
)

func main() {
	cfg, err := dashboardcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exit("parse flags", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dashboardcmd.Run(ctx, cfg); err != nil {
		config.Exit("dashboard", err)
	}
}
