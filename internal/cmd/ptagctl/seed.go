package ptagctl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse/sqlite"
)

type seedOptions struct {
	path string
	days int
	seed uint64
}

func (a *app) seedCommand() *cobra.Command {
	opts := seedOptions{path: filepath.Join("data", "warehouse.db"), days: 30, seed: 1}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a local SQLite warehouse with demo readings",
		Long: `Creates the warehouse tables in a SQLite file and loads three demo buildings
with hourly readings. Point the dashboard at it with
PTAG_DB_DRIVER=sqlite PTAG_DB_DSN=<path>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, _ Config, logger *zap.Logger) error {
				return a.seed(ctx, logger, opts)
			})
		},
	}
	cmd.Flags().StringVar(&opts.path, "path", opts.path, "SQLite file to create or extend")
	cmd.Flags().IntVar(&opts.days, "days", opts.days, "days of hourly readings to generate")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "random seed for reading values")
	return cmd
}

func (a *app) seed(ctx context.Context, logger *zap.Logger, opts seedOptions) error {
	path := filepath.Clean(opts.path)
	if path == "." || path == "" {
		return fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}

	sqlDB, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	fixture := sqlite.DemoFixture(a.now(), opts.days, opts.seed)
	if err := sqlite.Insert(ctx, sqlDB, fixture); err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	logger.Info("seeded demo warehouse",
		zap.String("path", path),
		zap.Int("buildings", len(fixture.Buildings)),
		zap.Int("areas", len(fixture.Areas)),
		zap.Int("readings", len(fixture.Readings)),
	)
	a.printf("Seeded %s: %d buildings, %d areas, %d readings\n",
		path, len(fixture.Buildings), len(fixture.Areas), len(fixture.Readings))
	a.printf("Run the dashboard with PTAG_DB_DRIVER=sqlite PTAG_DB_DSN=%s\n", path)
	return nil
}
