package ptagctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tcld/ptagdash/internal/services/dashboard/query"
	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

type checkOptions struct {
	days   int
	sample int
}

func (a *app) checkCommand() *cobra.Command {
	opts := checkOptions{days: 30, sample: 5}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe the warehouse and sample each dataset",
		Long: `Connects with the configured warehouse settings, runs the connection probe
and then reads a few buildings, areas, recent readings and the metrics summary.
Exits non-zero when the warehouse cannot be queried.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, cfg Config, logger *zap.Logger) error {
				return a.check(ctx, cfg, logger, opts)
			})
		},
	}
	cmd.Flags().IntVar(&opts.days, "days", opts.days, "days of readings to sample")
	cmd.Flags().IntVar(&opts.sample, "sample", opts.sample, "rows to print per dataset")
	return cmd
}

func (a *app) check(ctx context.Context, cfg Config, logger *zap.Logger, opts checkOptions) error {
	if opts.sample <= 0 {
		opts.sample = 5
	}
	driver, err := cfg.Warehouse.NormalizedDriver()
	if err != nil {
		return err
	}
	a.printf("Driver:   %s\n", driver)
	if driver != warehouse.DriverSQLite {
		a.printf("Server:   %s\n", cfg.Warehouse.Server)
		a.printf("Database: %s\n", cfg.Warehouse.Database)
		a.printf("Auth:     %s\n", cfg.Warehouse.NormalizedAuthMethod())
	}

	store, err := warehouse.Open(cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("open warehouse: %w", err)
	}
	defer func() { _ = store.Close() }()
	layer := query.NewLayer(store, logger)

	status := layer.CheckConnection(ctx)
	switch status.State {
	case query.Connected:
		a.printf("Connection: ok\n")
	case query.Errored:
		a.printf("Connection: error: %s\n", status.Message)
		return errCheckFailed
	default:
		a.printf("Connection: failed\n")
		return errCheckFailed
	}

	buildings, ok := layer.ListBuildings(ctx)
	a.printf("\nBuildings: %d\n", len(buildings))
	if !ok {
		a.printf("  no buildings found\n")
		return errCheckFailed
	}
	for _, b := range buildings[:min(opts.sample, len(buildings))] {
		a.printf("  %s  %s\n", b.ID, b.Name)
	}

	first := buildings[0]
	areas, _ := layer.ListAreas(ctx, first.ID)
	a.printf("\nAreas of %s: %d\n", first.ID, len(areas))
	for _, area := range areas[:min(opts.sample, len(areas))] {
		a.printf("  %s  %s\n", area.ID, area.Name)
	}

	end := a.now().UTC()
	dateRange := warehouse.DateRange{Start: end.AddDate(0, 0, -opts.days), End: end}
	readings, _ := layer.ListReadings(ctx, warehouse.ReadingFilter{Range: dateRange, Limit: opts.sample})
	a.printf("\nRecent readings (last %d days): %d shown\n", opts.days, len(readings))
	for _, r := range readings {
		a.printf("  %s  %-20s %-20s %10.2f %s\n",
			r.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			blankAs(r.BuildingName, r.BuildingID), blankAs(r.AreaName, r.AreaID), r.Value, r.Unit)
	}

	summary, ok := layer.ComputeMetrics(ctx, warehouse.MetricsFilter{Range: dateRange})
	if !ok {
		a.printf("\nMetrics: unavailable\n")
		return errCheckFailed
	}
	a.printf("\nMetrics: %d records, total %.2f, average %.2f, peak %.2f, lowest %.2f\n",
		summary.RecordCount, summary.Total, summary.Average, summary.Peak, summary.Lowest)
	return nil
}

func blankAs(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
