package templates

import (
	"github.com/a-h/templ"

	"github.com/tcld/ptagdash/internal/services/dashboard/routepath"
)

// Option is one entry of a select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// FiltersView holds the current filter selections.
type FiltersView struct {
	Buildings []Option
	Areas     []Option
	// Start and End are YYYY-MM-DD.
	Start string
	End   string
}

// Form field names shared by the filter controls and the handlers.
const (
	FieldBuilding = "building"
	FieldArea     = "area"
	FieldStart    = "start"
	FieldEnd      = "end"
)

// Filters renders the filter bar. Changing the building reloads the area
// options; the refresh button re-fetches every region.
func Filters(view FiltersView, loc Localizer) templ.Component {
	return component(func(h *html) {
		h.raw(`<form id="filters" class="filters-container" action="/" method="get">`)

		h.raw(`<div class="filter-item"><label for="building-select">`)
		h.text(T(loc, "filters.building"))
		h.raw(`</label><select id="building-select" data-searchable`)
		h.attr("name", FieldBuilding)
		h.attr("data-search-placeholder", T(loc, "filters.search"))
		h.attr("hx-get", routepath.OptionsBuildings)
		h.raw(` hx-trigger="refresh from:body" hx-include="this" hx-swap="innerHTML">`)
		h.component(Options(view.Buildings, T(loc, "filters.building_placeholder")))
		h.raw(`</select></div>`)

		h.raw(`<div class="filter-item"><label for="area-select">`)
		h.text(T(loc, "filters.area"))
		h.raw(`</label><select id="area-select" data-searchable`)
		h.attr("name", FieldArea)
		h.attr("data-search-placeholder", T(loc, "filters.search"))
		h.attr("hx-get", routepath.OptionsAreas)
		h.raw(` hx-trigger="change from:#building-select" hx-include="#building-select" hx-swap="innerHTML">`)
		h.component(Options(view.Areas, T(loc, "filters.area_placeholder")))
		h.raw(`</select></div>`)

		h.raw(`<div class="filter-item"><label>`)
		h.text(T(loc, "filters.date_range"))
		h.raw(`</label><div class="date-range"><input type="date"`)
		h.attr("name", FieldStart)
		h.attr("value", view.Start)
		h.attr("aria-label", T(loc, "filters.start"))
		h.raw(`><input type="date"`)
		h.attr("name", FieldEnd)
		h.attr("value", view.End)
		h.attr("aria-label", T(loc, "filters.end"))
		h.raw(`></div></div>`)

		h.raw(`<button type="submit" id="refresh-button" class="refresh-btn">`)
		h.text(T(loc, "filters.refresh"))
		h.raw(`</button></form>`)
	})
}

// Options renders a placeholder entry followed by options. The placeholder
// has an empty value, so choosing it clears the filter.
func Options(options []Option, placeholder string) templ.Component {
	return component(func(h *html) {
		h.raw(`<option value="">`)
		h.text(placeholder)
		h.raw(`</option>`)
		for _, option := range options {
			h.raw(`<option`)
			h.attr("value", option.Value)
			if option.Selected {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(option.Label)
			h.raw(`</option>`)
		}
	})
}
