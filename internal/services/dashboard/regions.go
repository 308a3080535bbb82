package dashboard

import (
	"context"
	"fmt"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/tcld/ptagdash/internal/platform/requestctx"
	"github.com/tcld/ptagdash/internal/services/dashboard/chart"
	"github.com/tcld/ptagdash/internal/services/dashboard/query"
	"github.com/tcld/ptagdash/internal/services/dashboard/routepath"
	"github.com/tcld/ptagdash/internal/services/dashboard/templates"
	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

const (
	// regionErrorLimit caps error text in the metrics and table regions.
	regionErrorLimit = 100
	// chartErrorLimit caps error text in the chart and status regions.
	chartErrorLimit = 50
)

// Element ids of the page regions.
const (
	StatusRegionID       = "status-region"
	MetricsRegionID      = "metrics-region"
	ConsumptionRegionID  = "consumption-region"
	DistributionRegionID = "distribution-region"
	TableRegionID        = "table-region"

	consumptionChartID  = "consumption-chart"
	distributionChartID = "distribution-chart"
)

// guard runs build and turns a panic into onError's result, passing the
// panic text truncated to limit.
func guard[T any](ctx context.Context, h *Handler, region string, limit int, build func() T, onError func(msg string) T) (result T) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("region render failed",
				zap.String("region", region),
				zap.String("request_id", requestctx.RequestIDFromContext(ctx)),
				zap.Any("panic", rec),
			)
			result = onError(query.Truncate(fmt.Sprint(rec), limit))
		}
	}()
	return build()
}

func (h *Handler) statusRegion(ctx context.Context, view requestView) templates.Region {
	content := guard(ctx, h, "status", chartErrorLimit, func() templ.Component {
		status := h.layer.CheckConnection(ctx)
		switch status.State {
		case query.Connected:
			return templates.Status(templates.StatusView{OK: true, Text: view.loc.Sprintf("status.connected")})
		case query.Errored:
			return templates.Status(templates.StatusView{Text: view.loc.Sprintf("status.errored", status.Message)})
		default:
			return templates.Status(templates.StatusView{Text: view.loc.Sprintf("status.rejected")})
		}
	}, func(msg string) templ.Component {
		return templates.Status(templates.StatusView{Text: view.loc.Sprintf("status.errored", msg)})
	})
	return templates.Region{ID: StatusRegionID, Path: routepath.RegionStatus, Class: "status-message", Content: content}
}

func (h *Handler) metricsRegion(ctx context.Context, view requestView) templates.Region {
	content := guard(ctx, h, "metrics", regionErrorLimit, func() templ.Component {
		summary, ok := h.layer.ComputeMetrics(ctx, view.filters.Metrics())
		if !ok {
			return templates.Metrics(templates.MetricsView{Message: view.loc.Sprintf("core.no_data")})
		}
		return templates.Metrics(templates.MetricsView{Cards: metricCards(view.loc, summary)})
	}, func(msg string) templ.Component {
		return templates.Message(view.loc.Sprintf("metrics.error", msg))
	})
	return templates.Region{ID: MetricsRegionID, Path: routepath.RegionMetrics, Class: "metrics-grid", Content: content}
}

func metricCards(loc templates.Localizer, summary warehouse.MetricsSummary) []templates.MetricCard {
	return []templates.MetricCard{
		{
			Label: templates.T(loc, "metrics.total"),
			Value: FormatValue(summary.Total),
			Note:  templates.T(loc, "metrics.records", summary.RecordCount),
		},
		{
			Label: templates.T(loc, "metrics.average"),
			Value: FormatValue(summary.Average),
			Note:  metricsSpan(loc, summary),
		},
		{Label: templates.T(loc, "metrics.peak"), Value: FormatValue(summary.Peak)},
		{Label: templates.T(loc, "metrics.lowest"), Value: FormatValue(summary.Lowest)},
	}
}

// metricsSpan names the first and last reading times behind the summary.
func metricsSpan(loc templates.Localizer, summary warehouse.MetricsSummary) string {
	if summary.RecordCount == 0 || summary.FirstAt.IsZero() || summary.LastAt.IsZero() {
		return ""
	}
	return templates.T(loc, "metrics.span", FormatTimestamp(summary.FirstAt), FormatTimestamp(summary.LastAt))
}

func (h *Handler) consumptionRegion(ctx context.Context, view requestView) templates.Region {
	labels := chart.Labels{
		Title:      view.loc.Sprintf("chart.consumption.title"),
		XAxis:      view.loc.Sprintf("chart.axis.date"),
		YAxis:      view.loc.Sprintf("chart.axis.consumption"),
		Legend:     view.loc.Sprintf("chart.axis.building"),
		NoData:     view.loc.Sprintf("core.no_data"),
		Unassigned: view.loc.Sprintf("chart.unassigned"),
	}
	content := h.chartContent(ctx, view, "consumption", consumptionChartID, func(readings []warehouse.Reading) chart.Figure {
		return chart.Consumption(readings, labels)
	})
	return templates.Region{ID: ConsumptionRegionID, Path: routepath.RegionConsumption, Class: "chart-container", Content: content}
}

func (h *Handler) distributionRegion(ctx context.Context, view requestView) templates.Region {
	labels := chart.Labels{
		Title:      view.loc.Sprintf("chart.distribution.title"),
		XAxis:      view.loc.Sprintf("chart.axis.building"),
		YAxis:      view.loc.Sprintf("chart.axis.consumption"),
		NoData:     view.loc.Sprintf("core.no_data"),
		Unassigned: view.loc.Sprintf("chart.unassigned"),
	}
	content := h.chartContent(ctx, view, "distribution", distributionChartID, func(readings []warehouse.Reading) chart.Figure {
		return chart.Distribution(readings, labels)
	})
	return templates.Region{ID: DistributionRegionID, Path: routepath.RegionDistribution, Class: "chart-container", Content: content}
}

// chartContent loads chart readings and draws them with draw. Failures draw
// an error figure in the same place.
func (h *Handler) chartContent(ctx context.Context, view requestView, region, chartID string, draw func([]warehouse.Reading) chart.Figure) templ.Component {
	errorChart := func(msg string) templ.Component {
		figure, err := chart.Message(view.loc.Sprintf("chart.error", msg)).JSON()
		if err != nil {
			return templates.Message(view.loc.Sprintf("chart.error", msg))
		}
		return templates.Chart(templates.ChartView{ID: chartID, FigureJSON: figure})
	}
	return guard(ctx, h, region, chartErrorLimit, func() templ.Component {
		readings, _ := h.layer.ListReadings(ctx, view.filters.Readings(h.limits.Chart))
		figure, err := draw(readings).JSON()
		if err != nil {
			h.logger.Warn("encode figure", zap.String("region", region), zap.Error(err))
			return errorChart(query.Truncate(err.Error(), chartErrorLimit))
		}
		return templates.Chart(templates.ChartView{ID: chartID, FigureJSON: figure})
	}, errorChart)
}

func (h *Handler) tableRegion(ctx context.Context, view requestView) templates.Region {
	content := guard(ctx, h, "table", regionErrorLimit, func() templ.Component {
		readings, ok := h.layer.ListReadings(ctx, view.filters.Readings(h.limits.Table))
		if !ok {
			return templates.Table(templates.TableView{Message: view.loc.Sprintf("core.no_data")})
		}
		return templates.Table(tableView(view.loc, readings))
	}, func(msg string) templ.Component {
		return templates.Message(view.loc.Sprintf("table.error", msg))
	})
	return templates.Region{ID: TableRegionID, Path: routepath.RegionTable, Class: "data-table-container", Content: content}
}

func tableView(loc templates.Localizer, readings []warehouse.Reading) templates.TableView {
	view := templates.TableView{
		Columns: []string{
			templates.T(loc, "table.building"),
			templates.T(loc, "table.area"),
			templates.T(loc, "table.ptag"),
			templates.T(loc, "table.value"),
			templates.T(loc, "table.unit"),
			templates.T(loc, "table.timestamp"),
		},
		Rows: make([]templates.TableRow, 0, len(readings)),
	}
	for _, r := range readings {
		view.Rows = append(view.Rows, templates.TableRow{
			Building:  r.BuildingName,
			Area:      r.AreaName,
			Ptag:      r.PtagID,
			Value:     FormatValue(r.Value),
			Unit:      r.Unit,
			Timestamp: FormatTimestamp(r.Timestamp),
		})
	}
	return view
}
