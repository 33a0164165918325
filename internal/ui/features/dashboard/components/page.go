package components

import (
	"context"
	"encoding/json"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/moviescope/internal/dashboard"
	"github.com/leapstack-labs/moviescope/internal/ui/resources"
)

// Script sources loaded by every page.
const (
	DatastarSrc = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"
	PlotlySrc   = "https://cdn.plot.ly/plotly-2.35.2.min.js"
)

// Page is the document shell. signals seeds the datastar store; it may be nil
// when the page has no widgets.
func Page(title string, isDev bool, signals any, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		m.raw("<!DOCTYPE html>")
		m.open("html", "lang", "en")
		m.raw("<head>")
		m.raw(`<meta charset="utf-8">`)
		m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.element("title", title)
		m.open("link", "rel", "icon", "href", iconHref())
		m.open("link", "rel", "stylesheet", "href", resources.StaticPath("app.css"))
		m.open("script", "type", "module", "src", DatastarSrc)
		m.close("script")
		m.open("script", "src", PlotlySrc, "defer", "")
		m.close("script")
		m.open("script", "src", resources.StaticPath("charts.js"), "defer", "")
		m.close("script")
		m.raw("</head>")

		m.raw("<body>")
		attrs := []string{"id", "app"}
		if signals != nil {
			seed, err := json.Marshal(signals)
			if err != nil {
				return err
			}
			attrs = append(attrs, "data-signals", string(seed))
		}
		m.open("div", attrs...)
		m.render(ctx, body)
		m.close("div")
		if isDev {
			m.open("div", "data-init", "@get('/reload', {retryMaxCount: 1000})")
			m.close("div")
		}
		m.raw("</body></html>")
		return m.err
	})
}

// iconHref is an inline SVG favicon showing the page icon.
func iconHref() string {
	return "data:image/svg+xml,<svg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 100 100'>" +
		"<text y='.9em' font-size='90'>" + dashboard.PageIcon + "</text></svg>"
}
