package templates

import (
	"github.com/a-h/templ"
)

// Region is a page area that HTMX re-fetches on refresh.
type Region struct {
	// ID is the element id.
	ID string
	// Path is the fragment route that re-renders the region content.
	Path string
	// Class styles the region element.
	Class string
	// Content is the server-rendered initial content.
	Content templ.Component
}

// RegionContainer renders the region element and its current content. On the
// refresh event it reloads itself from Path with the filter form values.
func RegionContainer(region Region) templ.Component {
	return component(func(h *html) {
		h.raw(`<div`)
		h.attr("id", region.ID)
		h.attr("class", region.Class)
		h.attr("hx-get", region.Path)
		h.raw(` hx-trigger="refresh from:body" hx-include="#filters" hx-swap="innerHTML" aria-live="polite">`)
		h.component(region.Content)
		h.raw(`</div>`)
	})
}

// StatusView is the connection banner.
type StatusView struct {
	OK   bool
	Text string
}

// Status renders the connection banner.
func Status(view StatusView) templ.Component {
	return component(func(h *html) {
		class := "status-error"
		if view.OK {
			class = "status-success"
		}
		h.raw(`<div`)
		h.attr("class", class)
		h.raw(`>`)
		h.text(view.Text)
		h.raw(`</div>`)
	})
}

// MetricCard is one summary figure.
type MetricCard struct {
	Label string
	Value string
	// Note is optional small print under the value.
	Note string
}

// MetricsView holds the metric cards, or a message when there are none.
type MetricsView struct {
	Cards   []MetricCard
	Message string
}

// Metrics renders the metric cards.
func Metrics(view MetricsView) templ.Component {
	if len(view.Cards) == 0 {
		return Message(view.Message)
	}
	return component(func(h *html) {
		for _, card := range view.Cards {
			h.raw(`<div class="metric-card"><h4>`)
			h.text(card.Label)
			h.raw(`</h4><p>`)
			h.text(card.Value)
			h.raw(`</p>`)
			if card.Note != "" {
				h.raw(`<small>`)
				h.text(card.Note)
				h.raw(`</small>`)
			}
			h.raw(`</div>`)
		}
	})
}

// ChartView carries a Plotly figure for the client to draw.
type ChartView struct {
	ID         string
	FigureJSON string
}

// Chart renders the plot target. dashboard.js draws data-figure with Plotly.
func Chart(view ChartView) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="chart"`)
		h.attr("id", view.ID)
		h.attr("data-figure", view.FigureJSON)
		h.raw(`></div>`)
	})
}

// TableRow is one formatted reading.
type TableRow struct {
	Building  string
	Area      string
	Ptag      string
	Value     string
	Unit      string
	Timestamp string
}

// TableView holds the recent readings grid, or a message when empty.
type TableView struct {
	Columns []string
	Rows    []TableRow
	Message string
}

// Table renders the recent readings grid.
func Table(view TableView) templ.Component {
	if len(view.Rows) == 0 {
		return Message(view.Message)
	}
	return component(func(h *html) {
		h.raw(`<table class="data-table"><thead><tr>`)
		for _, column := range view.Columns {
			h.raw(`<th>`)
			h.text(column)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range view.Rows {
			h.raw(`<tr>`)
			for _, cell := range []string{row.Building, row.Area, row.Ptag, row.Value, row.Unit, row.Timestamp} {
				h.raw(`<td>`)
				h.text(cell)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)
	})
}

// Message renders a placeholder in place of region content.
func Message(text string) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="region-message">`)
		h.text(text)
		h.raw(`</div>`)
	})
}
