package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"

	"github.com/tcld/ptagdash/internal/services/dashboard/i18n"
	pagemodule "github.com/tcld/ptagdash/internal/services/dashboard/module/page"
	regionsmodule "github.com/tcld/ptagdash/internal/services/dashboard/module/regions"
	"github.com/tcld/ptagdash/internal/services/dashboard/query"
	"github.com/tcld/ptagdash/internal/services/dashboard/routepath"
	"github.com/tcld/ptagdash/internal/services/dashboard/static"
	"github.com/tcld/ptagdash/internal/services/dashboard/templates"
	"github.com/tcld/ptagdash/internal/services/dashboard/transport/httpmux"
	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
	"github.com/tcld/ptagdash/internal/services/shared/htmx"
	"github.com/tcld/ptagdash/internal/services/shared/route"
)

// Limits caps how many readings each view asks for.
type Limits struct {
	Chart int `env:"PTAG_CHART_LIMIT" envDefault:"500"`
	Table int `env:"PTAG_TABLE_LIMIT" envDefault:"100"`
}

const (
	defaultChartLimit = 500
	defaultTableLimit = 100
)

func (l Limits) withDefaults() Limits {
	if l.Chart <= 0 {
		l.Chart = defaultChartLimit
	}
	if l.Table <= 0 {
		l.Table = defaultTableLimit
	}
	return l
}

// Layer is the query surface the handlers read from. *query.Layer
// satisfies it.
type Layer interface {
	CheckConnection(ctx context.Context) query.ConnectionStatus
	ListBuildings(ctx context.Context) ([]warehouse.Building, bool)
	ListAreas(ctx context.Context, buildingID string) ([]warehouse.Area, bool)
	ListReadings(ctx context.Context, filter warehouse.ReadingFilter) ([]warehouse.Reading, bool)
	ComputeMetrics(ctx context.Context, filter warehouse.MetricsFilter) (warehouse.MetricsSummary, bool)
}

// HandlerOptions tune a Handler. Zero values pick the defaults.
type HandlerOptions struct {
	Logger *zap.Logger
	Limits Limits
	// Now is the clock used for the default date range.
	Now func() time.Time
}

// Handler routes dashboard requests.
type Handler struct {
	layer  Layer
	logger *zap.Logger
	limits Limits
	now    func() time.Time
}

// requestView is what every handler derives from the request before
// rendering.
type requestView struct {
	loc     *message.Printer
	page    templates.PageContext
	filters Filters
}

// NewHandler returns the dashboard routes backed by layer.
func NewHandler(layer Layer, opts HandlerOptions) http.Handler {
	return newHandler(layer, opts).routes()
}

func newHandler(layer Layer, opts HandlerOptions) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		layer:  layer,
		logger: logger.Named("dashboard"),
		limits: opts.Limits.withDefaults(),
		now:    now,
	}
}

// routes wires the HTTP routes for the dashboard handler.
func (h *Handler) routes() http.Handler {
	rootMux := http.NewServeMux()
	httpmux.MountStatic(rootMux, static.FS)

	appMux := http.NewServeMux()
	pagemodule.RegisterRoutes(appMux, h)
	regionsmodule.RegisterRoutes(appMux, h)
	httpmux.MountRoutes(rootMux, appMux)
	return rootMux
}

func (h *Handler) localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	return i18n.Printer(tag), tag.String()
}

func (h *Handler) requestView(w http.ResponseWriter, r *http.Request) requestView {
	loc, lang := h.localizer(w, r)
	filters := ParseFilters(r.URL.Query(), h.now())
	return requestView{
		loc:     loc,
		filters: filters,
		page: templates.PageContext{
			Lang:      lang,
			Loc:       loc,
			Languages: languageOptions(loc, lang, filters),
		},
	}
}

// languageOptions links every supported language to the current filters.
func languageOptions(loc *message.Printer, active string, filters Filters) []templates.LanguageOption {
	tags := i18n.Supported()
	options := make([]templates.LanguageOption, 0, len(tags))
	for _, tag := range tags {
		values := filters.Query()
		values.Set(i18n.LangParam, tag.String())
		options = append(options, templates.LanguageOption{
			Tag:    tag.String(),
			Label:  loc.Sprintf("core.lang." + tag.String()),
			URL:    routepath.Root + "?" + values.Encode(),
			Active: tag.String() == active,
		})
	}
	return options
}

// HandleDashboard renders the whole page with every region filled in.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routepath.Root {
		if !route.RedirectTrailingSlash(w, r) {
			http.NotFound(w, r)
		}
		return
	}
	view := h.requestView(w, r)
	page := templates.PageView{
		Filters: templates.FiltersView{
			Start: view.filters.Range.Start.Format(dateLayout),
			End:   view.filters.Range.End.Format(dateLayout),
		},
	}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		page.Filters.Buildings = h.buildingOptions(ctx, view.filters.BuildingID)
		return nil
	})
	g.Go(func() error {
		page.Filters.Areas = h.areaOptions(ctx, view.filters.BuildingID, view.filters.AreaID)
		return nil
	})
	g.Go(func() error {
		page.Status = h.statusRegion(ctx, view)
		return nil
	})
	g.Go(func() error {
		page.Metrics = h.metricsRegion(ctx, view)
		return nil
	})
	g.Go(func() error {
		page.Consumption = h.consumptionRegion(ctx, view)
		return nil
	})
	g.Go(func() error {
		page.Distribution = h.distributionRegion(ctx, view)
		return nil
	})
	g.Go(func() error {
		page.Table = h.tableRegion(ctx, view)
		return nil
	})
	_ = g.Wait()

	templ.Handler(templates.Page(page, view.page)).ServeHTTP(w, r)
}

// HandleBuildingOptions renders the building select options.
func (h *Handler) HandleBuildingOptions(w http.ResponseWriter, r *http.Request) {
	view := h.requestView(w, r)
	options := h.buildingOptions(r.Context(), view.filters.BuildingID)
	htmx.Render(w, r, templates.Options(options, view.loc.Sprintf("filters.building_placeholder")), nil)
}

// HandleAreaOptions renders the area select options for the chosen building.
func (h *Handler) HandleAreaOptions(w http.ResponseWriter, r *http.Request) {
	view := h.requestView(w, r)
	options := h.areaOptions(r.Context(), view.filters.BuildingID, view.filters.AreaID)
	htmx.Render(w, r, templates.Options(options, view.loc.Sprintf("filters.area_placeholder")), nil)
}

func (h *Handler) buildingOptions(ctx context.Context, selected string) []templates.Option {
	return guard(ctx, h, "buildings", regionErrorLimit, func() []templates.Option {
		return h.loadBuildingOptions(ctx, selected)
	}, noOptions)
}

func (h *Handler) areaOptions(ctx context.Context, buildingID, selected string) []templates.Option {
	return guard(ctx, h, "areas", regionErrorLimit, func() []templates.Option {
		return h.loadAreaOptions(ctx, buildingID, selected)
	}, noOptions)
}

func noOptions(string) []templates.Option { return nil }

func (h *Handler) loadBuildingOptions(ctx context.Context, selected string) []templates.Option {
	buildings, ok := h.layer.ListBuildings(ctx)
	if !ok {
		return nil
	}
	options := make([]templates.Option, 0, len(buildings))
	for _, b := range buildings {
		label := b.Name
		if label == "" {
			label = b.ID
		}
		options = append(options, templates.Option{Value: b.ID, Label: label, Selected: b.ID == selected})
	}
	return options
}

func (h *Handler) loadAreaOptions(ctx context.Context, buildingID, selected string) []templates.Option {
	areas, ok := h.layer.ListAreas(ctx, buildingID)
	if !ok {
		return nil
	}
	options := make([]templates.Option, 0, len(areas))
	for _, a := range areas {
		label := a.Name
		if label == "" {
			label = a.ID
		}
		options = append(options, templates.Option{Value: a.ID, Label: label, Selected: a.ID == selected})
	}
	return options
}

// HandleStatusRegion renders the connection banner.
func (h *Handler) HandleStatusRegion(w http.ResponseWriter, r *http.Request) {
	h.serveRegion(w, r, h.statusRegion)
}

// HandleMetricsRegion renders the metric cards.
func (h *Handler) HandleMetricsRegion(w http.ResponseWriter, r *http.Request) {
	h.serveRegion(w, r, h.metricsRegion)
}

// HandleConsumptionRegion renders the consumption line chart.
func (h *Handler) HandleConsumptionRegion(w http.ResponseWriter, r *http.Request) {
	h.serveRegion(w, r, h.consumptionRegion)
}

// HandleDistributionRegion renders the distribution box chart.
func (h *Handler) HandleDistributionRegion(w http.ResponseWriter, r *http.Request) {
	h.serveRegion(w, r, h.distributionRegion)
}

// HandleTableRegion renders the recent readings table.
func (h *Handler) HandleTableRegion(w http.ResponseWriter, r *http.Request) {
	h.serveRegion(w, r, h.tableRegion)
}

type regionBuilder func(ctx context.Context, view requestView) templates.Region

// serveRegion renders region content for HTMX and a standalone page for a
// plain browser request.
func (h *Handler) serveRegion(w http.ResponseWriter, r *http.Request, build regionBuilder) {
	view := h.requestView(w, r)
	region := build(r.Context(), view)
	htmx.Render(w, r, region.Content, templates.RegionPage(region, view.page))
}
