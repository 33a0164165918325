// Package chart builds plotly.js figures and static images from dataset columns.
package chart

import "fmt"

// Kind is the closed set of charts the dashboard draws.
type Kind int

// Chart kinds.
const (
	Bar Kind = iota
	Line
	Area
	Scatter2D
	Scatter3D
)

var kindLabels = map[Kind]string{
	Bar:       "Bar Chart",
	Line:      "Line Chart",
	Area:      "Area Chart",
	Scatter2D: "Scatter Plot",
	Scatter3D: "3D Scatter Plot",
}

// kindSlugs are the short names accepted on the command line and query string.
var kindSlugs = map[Kind]string{
	Bar:       "bar",
	Line:      "line",
	Area:      "area",
	Scatter2D: "scatter",
	Scatter3D: "scatter3d",
}

// MetricKinds are the options offered by a metric's chart selector, in display order.
func MetricKinds() []Kind {
	return []Kind{Bar, Line, Area}
}

// MetricLabels returns the labels of MetricKinds.
func MetricLabels() []string {
	kinds := MetricKinds()
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = k.Label()
	}
	return labels
}

// Label returns the human label shown in selectors.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Slug returns the short name of k.
func (k Kind) Slug() string {
	return kindSlugs[k]
}

func (k Kind) String() string { return k.Label() }

// Categorical reports whether k plots a label column against a value.
func (k Kind) Categorical() bool {
	return k == Bar || k == Line || k == Area
}

// ParseKind accepts either a label ("Bar Chart") or a slug ("bar").
func ParseKind(s string) (Kind, error) {
	for k, l := range kindLabels {
		if s == l {
			return k, nil
		}
	}
	for k, slug := range kindSlugs {
		if s == slug {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
