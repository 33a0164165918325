package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/leapstack-labs/moviescope/internal/dataset"
)

// ErrUnsupportedFormat is returned for image formats other than png and svg.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Image formats accepted by RenderImage.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

const (
	imageWidth  = 8 * vg.Inch
	imageHeight = 4 * vg.Inch
)

var (
	traceColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	areaColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0x66}
)

// RenderImage draws the chart described by req and writes it to w in format.
// Missing values are drawn as zero-height bars and skipped by lines and scatters.
func RenderImage(ds *dataset.Dataset, req Request, format string, w io.Writer) error {
	if format != FormatPNG && format != FormatSVG {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if req.Kind == Scatter3D {
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, req.Kind.Label())
	}
	if err := req.Validate(ds); err != nil {
		return err
	}

	p, err := newPlot(ds, req)
	if err != nil {
		return err
	}

	writer, err := p.WriterTo(imageWidth, imageHeight, format)
	if err != nil {
		return fmt.Errorf("failed to create plot writer: %w", err)
	}
	if _, err := writer.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

func newPlot(ds *dataset.Dataset, req Request) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = titleFor(req)
	p.X.Label.Text = req.X
	p.Y.Label.Text = req.Y
	p.Add(plotter.NewGrid())

	switch req.Kind {
	case Bar:
		values := make(plotter.Values, ds.Len())
		for i := range values {
			values[i], _ = ds.Float(i, req.Y)
		}
		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return nil, fmt.Errorf("failed to create bar chart: %w", err)
		}
		bars.Color = traceColor
		bars.LineStyle.Width = 0
		p.Add(bars)
		nominal(p, ds.Texts(req.X))

	case Line, Area:
		pts := indexedPoints(ds, req.Y)
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line: %w", err)
		}
		line.Color = traceColor
		line.LineStyle.Width = vg.Points(2)
		if req.Kind == Area {
			line.FillColor = areaColor
		}
		p.Add(line)
		nominal(p, ds.Texts(req.X))

	case Scatter2D:
		scatter, err := plotter.NewScatter(pairedPoints(ds, req.X, req.Y))
		if err != nil {
			return nil, fmt.Errorf("failed to create scatter plot: %w", err)
		}
		scatter.GlyphStyle.Color = traceColor
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(scatter)
	}
	return p, nil
}

func titleFor(req Request) string {
	if req.Kind == Scatter2D {
		return titleOr(req.Title, req.X, req.Y)
	}
	if req.Title != "" {
		return req.Title
	}
	return req.Y
}

// nominal labels the x axis with one category per row.
func nominal(p *plot.Plot, labels []string) {
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.6
}

// indexedPoints places row i at x = i, matching the NominalX positions.
func indexedPoints(ds *dataset.Dataset, col string) plotter.XYs {
	pts := make(plotter.XYs, 0, ds.Len())
	for i := range ds.Len() {
		if y, ok := ds.Float(i, col); ok {
			pts = append(pts, plotter.XY{X: float64(i), Y: y})
		}
	}
	return pts
}

func pairedPoints(ds *dataset.Dataset, xCol, yCol string) plotter.XYs {
	pts := make(plotter.XYs, 0, ds.Len())
	for i := range ds.Len() {
		x, okX := ds.Float(i, xCol)
		y, okY := ds.Float(i, yCol)
		if okX && okY {
			pts = append(pts, plotter.XY{X: x, Y: y})
		}
	}
	return pts
}
