package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/moviescope/internal/dataset"
)

// Errors returned by Build and RenderImage.
var (
	ErrUnknownKind      = errors.New("unknown chart kind")
	ErrUnknownColumn    = errors.New("unknown column")
	ErrNotNumeric       = errors.New("column is not numeric")
	ErrUnsupportedImage = errors.New("chart kind has no static image")
)

// Height3D is the pixel height of the trivariate plot.
const Height3D = 1000

// Request describes one chart. For Bar, Line and Area, X is the label column
// and Y the metric. For the scatters every axis is a numeric column; Z is only
// read by Scatter3D.
type Request struct {
	Kind  Kind
	X     string
	Y     string
	Z     string
	Title string
}

// ScatterTitle is the title of an explorer plot over the given axes.
func ScatterTitle(axes ...string) string {
	return strings.Join(axes, " vs ")
}

// Validate checks the request's columns against ds.
func (r Request) Validate(ds *dataset.Dataset) error {
	if !r.Kind.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(r.Kind))
	}
	if r.Kind.Categorical() {
		if err := requireColumn(ds, r.X); err != nil {
			return err
		}
	} else if err := requireNumeric(ds, r.X); err != nil {
		return err
	}
	if err := requireNumeric(ds, r.Y); err != nil {
		return err
	}
	if r.Kind == Scatter3D {
		return requireNumeric(ds, r.Z)
	}
	return nil
}

// Build turns a request into a figure. Categorical kinds keep the row order of
// ds on the x axis.
func Build(ds *dataset.Dataset, req Request) (*Figure, error) {
	if err := req.Validate(ds); err != nil {
		return nil, err
	}

	switch req.Kind {
	case Bar:
		return categorical(ds, req, Trace{Type: "bar"}), nil
	case Line:
		return categorical(ds, req, Trace{Type: "scatter", Mode: "lines"}), nil
	case Area:
		return categorical(ds, req, Trace{Type: "scatter", Mode: "lines", Fill: "tozeroy"}), nil
	case Scatter2D:
		return scatter2D(ds, req), nil
	case Scatter3D:
		return scatter3D(ds, req), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(req.Kind))
}

func categorical(ds *dataset.Dataset, req Request, trace Trace) *Figure {
	labels := ds.Texts(req.X)
	trace.Name = req.Y
	trace.X = stringValues(labels)
	trace.Y = numericValues(ds, req.Y)

	return &Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title: Title{Text: req.Title},
			XAxis: &Axis{
				Title:         Title{Text: req.X},
				Type:          "category",
				CategoryOrder: "array",
				CategoryArray: labels,
			},
			YAxis:    &Axis{Title: Title{Text: req.Y}},
			AutoSize: true,
		},
	}
}

func scatter2D(ds *dataset.Dataset, req Request) *Figure {
	return &Figure{
		Data: []Trace{{
			Type: "scatter",
			Mode: "markers",
			X:    numericValues(ds, req.X),
			Y:    numericValues(ds, req.Y),
			Text: hoverText(ds),
		}},
		Layout: Layout{
			Title:    Title{Text: titleOr(req.Title, req.X, req.Y)},
			XAxis:    &Axis{Title: Title{Text: req.X}},
			YAxis:    &Axis{Title: Title{Text: req.Y}},
			AutoSize: true,
		},
	}
}

func scatter3D(ds *dataset.Dataset, req Request) *Figure {
	return &Figure{
		Data: []Trace{{
			Type: "scatter3d",
			Mode: "markers",
			X:    numericValues(ds, req.X),
			Y:    numericValues(ds, req.Y),
			Z:    numericValues(ds, req.Z),
			Text: hoverText(ds),
		}},
		Layout: Layout{
			Title:  Title{Text: titleOr(req.Title, req.X, req.Y, req.Z)},
			Height: Height3D,
			Scene: &Scene{
				XAxis: Axis{Title: Title{Text: req.X}},
				YAxis: Axis{Title: Title{Text: req.Y}},
				ZAxis: Axis{Title: Title{Text: req.Z}},
			},
			AutoSize: true,
		},
	}
}

func (k Kind) valid() bool {
	_, ok := kindLabels[k]
	return ok
}

func requireColumn(ds *dataset.Dataset, name string) error {
	if _, ok := ds.Column(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return nil
}

func requireNumeric(ds *dataset.Dataset, name string) error {
	if err := requireColumn(ds, name); err != nil {
		return err
	}
	if !ds.IsNumeric(name) {
		return fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	return nil
}

func titleOr(title string, axes ...string) string {
	if title != "" {
		return title
	}
	return ScatterTitle(axes...)
}

func stringValues(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// numericValues returns the column with missing values as nil.
func numericValues(ds *dataset.Dataset, col string) []any {
	out := make([]any, ds.Len())
	for i := range out {
		if f, ok := ds.Float(i, col); ok {
			out[i] = f
		}
	}
	return out
}

// hoverText labels scatter points by title when the dataset has one.
func hoverText(ds *dataset.Dataset) []string {
	if _, ok := ds.Column(dataset.ColumnTitle); !ok {
		return nil
	}
	return ds.Texts(dataset.ColumnTitle)
}
