package dashboard

import (
	"fmt"

	"github.com/leapstack-labs/moviescope/internal/chart"
	"github.com/leapstack-labs/moviescope/internal/dataset"
)

// DefaultPageSize is the number of dataset rows shown per table page.
const DefaultPageSize = 50

// Metrics are the columns charted against title, in display order.
var Metrics = []string{dataset.ColumnPopularity, dataset.ColumnVoteCount}

// Options tune Render.
type Options struct {
	TopN     int
	PageSize int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{TopN: dataset.DefaultTopN, PageSize: DefaultPageSize}
}

// View is everything the dashboard page shows.
type View struct {
	// State is the normalized state the view was rendered from.
	State State

	Columns       []dataset.Column
	ColumnListing string
	Table         TablePage

	// KindOptions are the labels offered by each metric selector.
	KindOptions []string
	// Metric charts, one per entry of Metrics.
	MetricCharts []MetricChart

	// AxisOptions are the numeric columns offered by the explorer radios.
	AxisOptions []string
	Bivariate   ExplorerChart
	Trivariate  ExplorerChart
}

// TablePage is one page of the raw dataset.
type TablePage struct {
	Headers []string
	Rows    [][]string
	// Page is zero-based; Pages is at least 1.
	Page  int
	Pages int
	Total int
	// From and To are the one-based bounds of the shown rows, 0 when empty.
	From int
	To   int
}

// HasPrev reports whether a previous page exists.
func (p TablePage) HasPrev() bool { return p.Page > 0 }

// HasNext reports whether a next page exists.
func (p TablePage) HasNext() bool { return p.Page < p.Pages-1 }

// MetricChart is a Top-N chart with its selector.
type MetricChart struct {
	Metric string
	Label  string
	// Signal is the datastar signal bound to the selector.
	Signal   string
	Selected string
	Figure   *chart.Figure
}

// ExplorerChart is a scatter plot with its radio groups.
type ExplorerChart struct {
	Title  string
	Axes   []AxisSelector
	Figure *chart.Figure
}

// AxisSelector is one radio group of an explorer tab.
type AxisSelector struct {
	Label    string
	Signal   string
	Selected string
}

// Render builds the view for state. The state is normalized first, so stale
// or hand-edited selections fall back to their defaults.
func Render(ds *dataset.Dataset, state State, opts Options) (View, error) {
	opts = withDefaults(opts)
	state = Normalize(state, ds)

	table := tablePage(ds, state.Page, opts.PageSize)
	state.Page = table.Page

	view := View{
		State:         state,
		Columns:       ds.Columns(),
		ColumnListing: ColumnListing(ds.ColumnNames()),
		Table:         table,
		KindOptions:   chart.MetricLabels(),
		AxisOptions:   ds.NumericColumns(),
	}

	top, err := dataset.TopN(ds, dataset.ColumnPopularity, opts.TopN)
	if err != nil {
		return View{}, err
	}

	selected := map[string]string{
		dataset.ColumnPopularity: state.PopularityKind,
		dataset.ColumnVoteCount:  state.VoteCountKind,
	}
	for _, metric := range Metrics {
		mc, err := metricChart(top, metric, selected[metric])
		if err != nil {
			return View{}, err
		}
		view.MetricCharts = append(view.MetricCharts, mc)
	}

	view.Bivariate, err = explorerChart(ds, chart.Scatter2D, BivariateAxisLabels,
		[]string{"biX", "biY"}, []string{state.BiX, state.BiY})
	if err != nil {
		return View{}, err
	}

	view.Trivariate, err = explorerChart(ds, chart.Scatter3D, TrivariateAxisLabels,
		[]string{"triX", "triY", "triZ"}, []string{state.TriX, state.TriY, state.TriZ})
	if err != nil {
		return View{}, err
	}

	return view, nil
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.TopN <= 0 {
		opts.TopN = def.TopN
	}
	if opts.PageSize <= 0 {
		opts.PageSize = def.PageSize
	}
	return opts
}

func metricChart(top *dataset.Dataset, metric, kindLabel string) (MetricChart, error) {
	kind, err := chart.ParseKind(kindLabel)
	if err != nil {
		return MetricChart{}, err
	}

	fig, err := chart.Build(top, chart.Request{Kind: kind, X: dataset.ColumnTitle, Y: metric})
	if err != nil {
		return MetricChart{}, fmt.Errorf("%s chart: %w", metric, err)
	}

	return MetricChart{
		Metric:   metric,
		Label:    SelectorLabel(metric),
		Signal:   metricSignal(metric),
		Selected: kindLabel,
		Figure:   fig,
	}, nil
}

func metricSignal(metric string) string {
	if metric == dataset.ColumnVoteCount {
		return "voteCountKind"
	}
	return "popularityKind"
}

func explorerChart(ds *dataset.Dataset, kind chart.Kind, labels, signals, selected []string) (ExplorerChart, error) {
	req := chart.Request{Kind: kind, X: selected[0], Y: selected[1]}
	if kind == chart.Scatter3D {
		req.Z = selected[2]
	}
	req.Title = chart.ScatterTitle(selected...)

	fig, err := chart.Build(ds, req)
	if err != nil {
		return ExplorerChart{}, fmt.Errorf("%s: %w", req.Title, err)
	}

	axes := make([]AxisSelector, len(labels))
	for i := range labels {
		axes[i] = AxisSelector{Label: labels[i], Signal: signals[i], Selected: selected[i]}
	}
	return ExplorerChart{Title: req.Title, Axes: axes, Figure: fig}, nil
}

func tablePage(ds *dataset.Dataset, page, size int) TablePage {
	total := ds.Len()
	pages := max((total+size-1)/size, 1)
	page = min(max(page, 0), pages-1)

	rows := ds.Slice(page*size, (page+1)*size)
	out := TablePage{
		Headers: ds.ColumnNames(),
		Rows:    make([][]string, rows.Len()),
		Page:    page,
		Pages:   pages,
		Total:   total,
	}
	for i := range rows.Len() {
		cells := make([]string, len(out.Headers))
		for j, col := range out.Headers {
			cells[j] = rows.Text(i, col)
		}
		out.Rows[i] = cells
	}
	if rows.Len() > 0 {
		out.From = page*size + 1
		out.To = page*size + rows.Len()
	}
	return out
}
