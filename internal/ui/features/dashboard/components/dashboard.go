package components

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/moviescope/internal/chart"
	"github.com/leapstack-labs/moviescope/internal/dashboard"
)

// DashboardID is the element patched on every re-render.
const DashboardID = "dashboard"

// RenderAction is the datastar action every widget fires.
const RenderAction = "@post('/api/dashboard/render')"

// Dashboard renders the whole view.
func Dashboard(view dashboard.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		m.open("main", "id", DashboardID)
		m.element("h1", dashboard.Heading)

		m.raw(`<section class="dataset">`)
		m.element("h2", dashboard.DatasetHeader)
		m.element("div", dashboard.DatasetNote, "class", "note info")
		m.render(ctx, Table(view.Table))
		m.element("div", dashboard.ColumnsNote, "class", "note success")
		m.element("p", view.ColumnListing, "class", "column-listing")
		m.raw("</section>")

		m.raw(`<section class="visualization">`)
		m.element("h2", dashboard.VisualizationHead)
		m.raw(`<div class="columns">`)
		for _, mc := range view.MetricCharts {
			m.render(ctx, MetricPanel(mc, view.KindOptions))
		}
		m.raw("</div>")
		m.render(ctx, Explorer(view))
		m.raw("</section>")

		m.close("main")
		return m.err
	})
}

// ErrorBanner replaces the dashboard when the dataset cannot be loaded.
func ErrorBanner(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := &markup{w: w}
		m.open("main", "id", DashboardID)
		m.element("h1", dashboard.Heading)
		m.open("div", "class", "banner error", "role", "alert")
		m.element("strong", "Could not load the dataset.")
		m.element("p", message)
		m.close("div")
		m.close("main")
		return m.err
	})
}

// Table renders one page of the dataset with its pager.
func Table(page dashboard.TablePage) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := &markup{w: w}
		m.raw(`<div class="table-wrap"><table class="dataframe"><thead><tr>`)
		for _, h := range page.Headers {
			m.element("th", h)
		}
		m.raw("</tr></thead><tbody>")
		for _, row := range page.Rows {
			m.raw("<tr>")
			for _, cell := range row {
				m.element("td", cell)
			}
			m.raw("</tr>")
		}
		m.raw("</tbody></table></div>")

		m.open("nav", "class", "pager")
		pagerButton(m, "Previous", "$page = $page - 1; "+RenderAction, !page.HasPrev())
		m.element("span", pagerText(page), "class", "pager-status")
		pagerButton(m, "Next", "$page = $page + 1; "+RenderAction, !page.HasNext())
		m.close("nav")
		return m.err
	})
}

func pagerButton(m *markup, label, action string, disabled bool) {
	attrs := []string{"type", "button", "data-on:click", action}
	if disabled {
		attrs = append(attrs, "disabled", "")
	}
	m.element("button", label, attrs...)
}

func pagerText(page dashboard.TablePage) string {
	if page.Total == 0 {
		return "No rows"
	}
	return fmt.Sprintf("Rows %d to %d of %d, page %d of %d",
		page.From, page.To, page.Total, page.Page+1, page.Pages)
}

// MetricPanel renders a metric's chart kind selector and its chart.
func MetricPanel(mc dashboard.MetricChart, options []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		m.open("div", "class", "panel", "id", "metric-"+mc.Metric)
		id := "select-" + mc.Metric
		m.element("label", mc.Label, "for", id)
		m.open("select", "id", id, "data-bind", mc.Signal, "data-on:change", RenderAction)
		for _, opt := range options {
			attrs := []string{"value", opt}
			if opt == mc.Selected {
				attrs = append(attrs, "selected", "")
			}
			m.element("option", opt, attrs...)
		}
		m.close("select")
		m.render(ctx, Figure("chart-"+mc.Metric, mc.Figure))
		m.close("div")
		return m.err
	})
}

// Explorer renders the bivariate and trivariate tabs.
func Explorer(view dashboard.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		m.open("div", "class", "tabs", "data-signals:_tab", "'bivariate'")
		m.open("div", "class", "tab-list", "role", "tablist")
		tabButton(m, "bivariate", dashboard.BivariateTab)
		tabButton(m, "trivariate", dashboard.TrivariateTab)
		m.close("div")

		explorerTab(ctx, m, "bivariate", view.Bivariate, view.AxisOptions)
		explorerTab(ctx, m, "trivariate", view.Trivariate, view.AxisOptions)
		m.close("div")
		return m.err
	})
}

func tabButton(m *markup, id, label string) {
	m.element("button", label,
		"type", "button",
		"role", "tab",
		"data-class:active", "$_tab == '"+id+"'",
		"data-on:click", "$_tab = '"+id+"'",
	)
}

func explorerTab(ctx context.Context, m *markup, id string, ec dashboard.ExplorerChart, options []string) {
	m.open("div", "class", "tab-panel", "id", "tab-"+id, "role", "tabpanel", "data-show", "$_tab == '"+id+"'")
	m.open("div", "class", "columns columns-"+strconv.Itoa(len(ec.Axes)))
	for _, axis := range ec.Axes {
		m.open("fieldset", "class", "radio-group")
		m.element("legend", axis.Label)
		for _, opt := range options {
			m.raw("<label>")
			attrs := []string{"type", "radio", "name", axis.Signal, "value", opt,
				"data-bind", axis.Signal, "data-on:change", RenderAction}
			if opt == axis.Selected {
				attrs = append(attrs, "checked", "")
			}
			m.open("input", attrs...)
			m.text(" " + opt)
			m.raw("</label>")
		}
		m.close("fieldset")
	}
	m.close("div")
	m.render(ctx, Figure("chart-"+id, ec.Figure))
	m.close("div")
}

// Figure renders a placeholder that static/charts.js fills with plotly.js.
func Figure(id string, fig *chart.Figure) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		data, err := fig.JSON()
		if err != nil {
			return fmt.Errorf("encode figure %s: %w", id, err)
		}
		m := &markup{w: w}
		m.element("div", dashboard.LoadingText, "class", "chart", "id", id, "data-figure", data)
		return m.err
	})
}
