// Package dashboard parses dashboard command flags and starts the HTTP server.
package dashboard

import (
	"context"
	"flag"
	"fmt"
	"net"
	"strconv"

	entrypoint "github.com/tcld/ptagdash/internal/platform/cmd"
	"github.com/tcld/ptagdash/internal/platform/logging"
	"github.com/tcld/ptagdash/internal/platform/otel"
	"github.com/tcld/ptagdash/internal/services/dashboard"
	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

// Config holds dashboard command configuration.
type Config struct {
	Host  string `env:"PTAG_HOST" envDefault:"0.0.0.0"`
	Port  int    `env:"PTAG_PORT" envDefault:"8050"`
	Debug bool   `env:"PTAG_DEBUG"`

	Limits    dashboard.Limits
	Warehouse warehouse.Settings
	OTel      otel.Settings
	Log       logging.Settings
}

// HTTPAddr is the listen address built from Host and Port.
func (c Config) HTTPAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ParseConfig parses .env, environment and flags into a Config. Flags win.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Host, "host", cfg.Host, "HTTP listen host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Development logging and panic stacks")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Log.Debug = cfg.Debug
	return cfg, nil
}

// Run starts the dashboard server and blocks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(entrypoint.ServiceDashboard, cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDashboard, cfg.OTel, logger, func(ctx context.Context) error {
		server, err := dashboard.NewServer(ctx, dashboard.Config{
			HTTPAddr:  cfg.HTTPAddr(),
			Debug:     cfg.Debug,
			Limits:    cfg.Limits,
			Warehouse: cfg.Warehouse,
		}, logger)
		if err != nil {
			return fmt.Errorf("init dashboard server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve dashboard: %w", err)
		}
		return nil
	})
}
