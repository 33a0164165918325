package dashboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/moviescope/internal/chart"
	"github.com/leapstack-labs/moviescope/internal/dataset"
)

func sample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New([]dataset.Column{
		{Name: dataset.ColumnTitle, Kind: dataset.KindString},
		{Name: dataset.ColumnPopularity, Kind: dataset.KindNumeric},
		{Name: dataset.ColumnVoteCount, Kind: dataset.KindNumeric},
	}, []dataset.Row{
		{"A", 10.0, 5.0},
		{"B", 30.0, 1.0},
		{"C", 20.0, 9.0},
	})
	require.NoError(t, err)
	return ds
}

func TestDefaultState(t *testing.T) {
	s := DefaultState(sample(t))

	assert.Equal(t, "Bar Chart", s.PopularityKind)
	assert.Equal(t, "Bar Chart", s.VoteCountKind)
	for _, axis := range []string{s.BiX, s.BiY, s.TriX, s.TriY, s.TriZ} {
		assert.Equal(t, dataset.ColumnPopularity, axis)
	}
	assert.Zero(t, s.Page)
}

func TestNormalize(t *testing.T) {
	ds := sample(t)

	tests := []struct {
		name  string
		input State
		want  State
	}{
		{
			name:  "zero state gets defaults",
			input: State{},
			want:  DefaultState(ds),
		},
		{
			name: "valid selections kept",
			input: State{
				PopularityKind: "Area Chart", VoteCountKind: "Line Chart",
				BiX: "vote_count", BiY: "popularity",
				TriX: "vote_count", TriY: "vote_count", TriZ: "popularity",
				Page: 2,
			},
			want: State{
				PopularityKind: "Area Chart", VoteCountKind: "Line Chart",
				BiX: "vote_count", BiY: "popularity",
				TriX: "vote_count", TriY: "vote_count", TriZ: "popularity",
				Page: 2,
			},
		},
		{
			name: "stale selections fall back",
			input: State{
				PopularityKind: "Pie Chart", VoteCountKind: "Line Chart",
				BiX: "title", BiY: "budget",
				TriX: "vote_count", TriY: "", TriZ: "vote_count",
				Page: -3,
			},
			want: State{
				PopularityKind: "Bar Chart", VoteCountKind: "Line Chart",
				BiX: "popularity", BiY: "popularity",
				TriX: "vote_count", TriY: "popularity", TriZ: "vote_count",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input, ds))
		})
	}
}

func TestRender_SampleBarOrder(t *testing.T) {
	ds := sample(t)
	view, err := Render(ds, DefaultState(ds), DefaultOptions())
	require.NoError(t, err)

	require.Len(t, view.MetricCharts, 2)
	pop := view.MetricCharts[0]
	assert.Equal(t, "Select Chart Type For Popularity", pop.Label)
	assert.Equal(t, "bar", pop.Figure.Data[0].Type)
	assert.Equal(t, []any{"B", "C", "A"}, pop.Figure.Data[0].X)
	assert.Equal(t, []any{30.0, 20.0, 10.0}, pop.Figure.Data[0].Y)
	assert.Equal(t, []string{"B", "C", "A"}, pop.Figure.Layout.XAxis.CategoryArray)

	votes := view.MetricCharts[1]
	assert.Equal(t, "Select Chart Type For Vote Count", votes.Label)
	assert.Equal(t, []any{1.0, 9.0, 5.0}, votes.Figure.Data[0].Y, "vote chart uses the popularity ranking")
}

func TestRender_SelectorsAreIndependent(t *testing.T) {
	ds := sample(t)
	base := DefaultState(ds)

	for _, label := range chart.MetricLabels() {
		t.Run(label, func(t *testing.T) {
			s := base
			s.PopularityKind = label
			view, err := Render(ds, s, DefaultOptions())
			require.NoError(t, err)

			assert.Equal(t, label, view.MetricCharts[0].Selected)
			assert.Equal(t, "Bar Chart", view.MetricCharts[1].Selected)
			assert.Equal(t, "bar", view.MetricCharts[1].Figure.Data[0].Type)
		})
	}

	s := base
	s.VoteCountKind = "Area Chart"
	view, err := Render(ds, s, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "bar", view.MetricCharts[0].Figure.Data[0].Type)
	assert.Equal(t, "tozeroy", view.MetricCharts[1].Figure.Data[0].Fill)
}

func TestRender_Explorer(t *testing.T) {
	ds := sample(t)
	s := DefaultState(ds)
	s.BiX, s.BiY = "popularity", "vote_count"
	s.TriX, s.TriY, s.TriZ = "vote_count", "popularity", "vote_count"

	view, err := Render(ds, s, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"popularity", "vote_count"}, view.AxisOptions)
	assert.Equal(t, "popularity vs vote_count", view.Bivariate.Title)
	assert.Equal(t, "vote_count vs popularity vs vote_count", view.Trivariate.Title)
	assert.Equal(t, chart.Height3D, view.Trivariate.Figure.Layout.Height)

	require.Len(t, view.Trivariate.Axes, 3)
	assert.Equal(t, "3rd Column for 3d Plot", view.Trivariate.Axes[2].Label)
	assert.Equal(t, "triZ", view.Trivariate.Axes[2].Signal)
	assert.Equal(t, "vote_count", view.Trivariate.Axes[2].Selected)

	// Scatters use the full dataset, not the Top-N subset, in table order.
	assert.Equal(t, []any{10.0, 30.0, 20.0}, view.Bivariate.Figure.Data[0].X)
}

func TestRender_IdenticalAxes(t *testing.T) {
	ds := sample(t)
	view, err := Render(ds, DefaultState(ds), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "popularity vs popularity", view.Bivariate.Title)
	assert.Equal(t, "popularity vs popularity vs popularity", view.Trivariate.Title)
	assert.Equal(t, view.Bivariate.Figure.Data[0].X, view.Bivariate.Figure.Data[0].Y)
}

func TestRender_TableAndListing(t *testing.T) {
	ds := sample(t)
	view, err := Render(ds, DefaultState(ds), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "Columns of the above dataset are title, popularity, vote_count.", view.ColumnListing)
	assert.Equal(t, []string{"title", "popularity", "vote_count"}, view.Table.Headers)
	assert.Equal(t, [][]string{{"A", "10", "5"}, {"B", "30", "1"}, {"C", "20", "9"}}, view.Table.Rows)
	assert.Equal(t, 1, view.Table.Pages)
	assert.False(t, view.Table.HasNext())
}

func TestRender_TablePaging(t *testing.T) {
	rows := make([]dataset.Row, 0, 7)
	for i := range 7 {
		rows = append(rows, dataset.Row{fmt.Sprintf("m%d", i), float64(i), float64(i)})
	}
	ds, err := dataset.New(sample(t).Columns(), rows)
	require.NoError(t, err)

	tests := []struct {
		page     int
		wantPage int
		wantFrom int
		wantTo   int
	}{
		{0, 0, 1, 3},
		{1, 1, 4, 6},
		{2, 2, 7, 7},
		{9, 2, 7, 7},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			s := DefaultState(ds)
			s.Page = tt.page
			view, err := Render(ds, s, Options{PageSize: 3})
			require.NoError(t, err)

			assert.Equal(t, 3, view.Table.Pages)
			assert.Equal(t, tt.wantPage, view.Table.Page)
			assert.Equal(t, tt.wantPage, view.State.Page)
			assert.Equal(t, tt.wantFrom, view.Table.From)
			assert.Equal(t, tt.wantTo, view.Table.To)
			assert.Equal(t, 7, view.Table.Total)
		})
	}
}

func TestRender_TopNLimit(t *testing.T) {
	rows := make([]dataset.Row, 0, 25)
	for i := range 25 {
		rows = append(rows, dataset.Row{fmt.Sprintf("m%02d", i), float64(i), 1.0})
	}
	ds, err := dataset.New(sample(t).Columns(), rows)
	require.NoError(t, err)

	view, err := Render(ds, DefaultState(ds), DefaultOptions())
	require.NoError(t, err)
	x := view.MetricCharts[0].Figure.Data[0].X
	require.Len(t, x, dataset.DefaultTopN)
	assert.Equal(t, "m24", x[0])
	assert.Equal(t, "m15", x[9])

	view, err = Render(ds, DefaultState(ds), Options{TopN: 3})
	require.NoError(t, err)
	assert.Len(t, view.MetricCharts[1].Figure.Data[0].X, 3)
}

func TestRender_WithoutTitleColumn(t *testing.T) {
	ds, err := dataset.New([]dataset.Column{
		{Name: dataset.ColumnPopularity, Kind: dataset.KindNumeric},
		{Name: dataset.ColumnVoteCount, Kind: dataset.KindNumeric},
	}, []dataset.Row{{1.0, 2.0}})
	require.NoError(t, err)

	_, err = Render(ds, DefaultState(ds), DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, chart.ErrUnknownColumn)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Vote Count", HumanizeColumn("vote_count"))
	assert.Equal(t, "Release Date", HumanizeColumn("release_date"))
	assert.Equal(t, "Select Chart Type For Popularity", SelectorLabel("popularity"))
	assert.Equal(t, "Columns of the above dataset are a.", ColumnListing([]string{"a"}))
}
