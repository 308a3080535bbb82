// Package query is the dashboard's view of the warehouse. Every operation
// either produces data or reports that it could not; failures are logged here
// and never reach the presentation code.
package query

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

// Source is the warehouse surface the dashboard reads from.
type Source interface {
	Ping(ctx context.Context) error
	ListBuildings(ctx context.Context) ([]warehouse.Building, error)
	ListAreas(ctx context.Context, buildingID string) ([]warehouse.Area, error)
	ListReadings(ctx context.Context, filter warehouse.ReadingFilter) ([]warehouse.Reading, error)
	ComputeMetrics(ctx context.Context, filter warehouse.MetricsFilter) (warehouse.MetricsSummary, error)
}

// Layer collapses warehouse failures into "no data".
type Layer struct {
	source Source
	logger *zap.Logger
}

// NewLayer wraps source. A nil logger discards failure logs.
func NewLayer(source Source, logger *zap.Logger) *Layer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Layer{source: source, logger: logger.Named("query")}
}

// ListBuildings returns every building ordered by name. ok is false when the
// query failed or found nothing.
func (l *Layer) ListBuildings(ctx context.Context) ([]warehouse.Building, bool) {
	if l.source == nil {
		return nil, false
	}
	buildings, err := l.source.ListBuildings(ctx)
	if err != nil {
		l.fail("list buildings", err)
		return nil, false
	}
	return buildings, len(buildings) > 0
}

// ListAreas returns the areas of one building. A blank buildingID reports no
// data without querying.
func (l *Layer) ListAreas(ctx context.Context, buildingID string) ([]warehouse.Area, bool) {
	buildingID = strings.TrimSpace(buildingID)
	if buildingID == "" || l.source == nil {
		return nil, false
	}
	areas, err := l.source.ListAreas(ctx, buildingID)
	if err != nil {
		l.fail("list areas", err, zap.String("building_id", buildingID))
		return nil, false
	}
	return areas, len(areas) > 0
}

// ListReadings returns the newest readings matching filter.
func (l *Layer) ListReadings(ctx context.Context, filter warehouse.ReadingFilter) ([]warehouse.Reading, bool) {
	if l.source == nil {
		return nil, false
	}
	readings, err := l.source.ListReadings(ctx, filter)
	if err != nil {
		l.fail("list readings", err,
			zap.String("building_id", filter.BuildingID),
			zap.String("area_id", filter.AreaID),
			zap.Int("limit", filter.EffectiveLimit()),
		)
		return nil, false
	}
	return readings, len(readings) > 0
}

// ComputeMetrics aggregates readings matching filter. An empty reading set
// still produces a summary of zeros; ok is false only when the query failed.
func (l *Layer) ComputeMetrics(ctx context.Context, filter warehouse.MetricsFilter) (warehouse.MetricsSummary, bool) {
	if l.source == nil {
		return warehouse.MetricsSummary{}, false
	}
	summary, err := l.source.ComputeMetrics(ctx, filter)
	if err != nil {
		l.fail("compute metrics", err, zap.String("building_id", filter.BuildingID))
		return warehouse.MetricsSummary{}, false
	}
	return summary, true
}

func (l *Layer) fail(op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err), zap.Bool("unavailable", warehouse.IsUnavailable(err)))
	l.logger.Warn(op+" failed", fields...)
}
