// Package ptagctl implements the ptagctl maintenance commands: a warehouse
// connection check and a local SQLite demo warehouse seeder.
package ptagctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	entrypoint "github.com/tcld/ptagdash/internal/platform/cmd"
	"github.com/tcld/ptagdash/internal/platform/logging"
	"github.com/tcld/ptagdash/internal/platform/otel"
	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

// Config holds the environment shared by every ptagctl command.
type Config struct {
	Warehouse warehouse.Settings
	OTel      otel.Settings
	Log       logging.Settings
}

// errCheckFailed marks a check that ran but found the warehouse unusable.
var errCheckFailed = errors.New("warehouse check failed")

type app struct {
	out    io.Writer
	now    func() time.Time
	logger *zap.Logger
	cfg    *Config
}

// NewRootCommand builds the ptagctl command tree writing reports to out.
// Configuration is read from .env and the environment on first use.
func NewRootCommand(out io.Writer) *cobra.Command {
	return newApp(out, nil, nil).rootCommand()
}

func newApp(out io.Writer, cfg *Config, logger *zap.Logger) *app {
	if out == nil {
		out = io.Discard
	}
	return &app{out: out, now: time.Now, logger: logger, cfg: cfg}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ptagctl",
		Short:         "Maintenance commands for the EA Ptag dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	root.AddCommand(a.checkCommand(), a.seedCommand())
	return root
}

// config loads Config once per process.
func (a *app) config() (Config, error) {
	if a.cfg != nil {
		return *a.cfg, nil
	}
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	a.cfg = &cfg
	return cfg, nil
}

func (a *app) loggerFor(cfg Config) (*zap.Logger, error) {
	if a.logger != nil {
		return a.logger, nil
	}
	logger, err := logging.New(entrypoint.ServiceCtl, cfg.Log)
	if err != nil {
		return nil, err
	}
	a.logger = logger
	return logger, nil
}

// run executes fn with config, logger and tracing in place.
func (a *app) run(ctx context.Context, fn func(ctx context.Context, cfg Config, logger *zap.Logger) error) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	logger, err := a.loggerFor(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCtl, cfg.OTel, logger, func(ctx context.Context) error {
		return fn(ctx, cfg, logger)
	})
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
