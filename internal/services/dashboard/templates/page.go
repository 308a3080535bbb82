package templates

import (
	"github.com/a-h/templ"
)

// PageContext provides shared layout context for dashboard pages.
type PageContext struct {
	Lang      string
	Loc       Localizer
	Languages []LanguageOption
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// PageView is the whole dashboard.
type PageView struct {
	Filters      FiltersView
	Status       Region
	Metrics      Region
	Consumption  Region
	Distribution Region
	Table        Region
}

// Page renders the dashboard document.
func Page(view PageView, page PageContext) templ.Component {
	return layout(page, component(func(h *html) {
		h.component(Filters(view.Filters, page.Loc))
		h.component(RegionContainer(view.Status))
		h.component(RegionContainer(view.Metrics))
		h.raw(`<div class="charts-row">`)
		h.component(RegionContainer(view.Consumption))
		h.component(RegionContainer(view.Distribution))
		h.raw(`</div><div class="data-section"><h3>`)
		h.text(T(page.Loc, "table.title"))
		h.raw(`</h3>`)
		h.component(RegionContainer(view.Table))
		h.raw(`</div>`)
	}))
}

// RegionPage renders one region on its own, for direct links to a fragment.
func RegionPage(region Region, page PageContext) templ.Component {
	return layout(page, component(func(h *html) {
		h.raw(`<div`)
		h.attr("id", region.ID)
		h.attr("class", region.Class)
		h.raw(`>`)
		h.component(region.Content)
		h.raw(`</div>`)
	}))
}

func layout(page PageContext, main templ.Component) templ.Component {
	return component(func(h *html) {
		lang := page.Lang
		if lang == "" {
			lang = "en"
		}
		h.raw(`<!DOCTYPE html><html`)
		h.attr("lang", lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(T(page.Loc, "core.app_title"))
		h.raw(`</title>`)
		h.raw(`<link rel="stylesheet" href="/static/dashboard.css">`)
		h.raw(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`)
		h.raw(`<script src="https://cdn.plot.ly/plotly-2.35.2.min.js" defer></script>`)
		h.raw(`<script src="/static/dashboard.js" defer></script>`)
		h.raw(`</head><body><div class="app-wrapper">`)

		h.raw(`<header class="header"><div class="header-content"><h1>`)
		h.text(T(page.Loc, "core.app_title"))
		h.raw(`</h1><p>`)
		h.text(T(page.Loc, "core.app_subtitle"))
		h.raw(`</p></div>`)
		if len(page.Languages) > 1 {
			h.raw(`<nav class="language-switch"`)
			h.attr("aria-label", T(page.Loc, "core.language"))
			h.raw(`>`)
			for _, option := range page.Languages {
				h.raw(`<a`)
				h.attr("href", option.URL)
				h.attr("hreflang", option.Tag)
				if option.Active {
					h.raw(` class="active" aria-current="true"`)
				}
				h.raw(`>`)
				h.text(option.Label)
				h.raw(`</a>`)
			}
			h.raw(`</nav>`)
		}
		h.raw(`</header>`)

		h.raw(`<main class="main-container">`)
		h.component(main)
		h.raw(`</main>`)

		h.raw(`<footer class="footer"><p>`)
		h.text(T(page.Loc, "core.footer"))
		h.raw(`</p></footer></div></body></html>`)
	})
}
