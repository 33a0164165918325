package chart

import "encoding/json"

// Figure is a plotly.js figure: the argument to Plotly.newPlot.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one plotly.js trace. Values are []any so categorical and numeric
// axes share a type; missing values encode as null and leave gaps.
type Trace struct {
	Type string `json:"type"`
	Mode string `json:"mode,omitempty"`
	Fill string `json:"fill,omitempty"`
	Name string `json:"name,omitempty"`
	X    []any  `json:"x"`
	Y    []any  `json:"y"`
	Z    []any  `json:"z,omitempty"`
	// Text holds hover labels; 2-D and 3-D scatters label points by title.
	Text []string `json:"text,omitempty"`
}

// Layout is the subset of plotly.js layout options the dashboard sets.
type Layout struct {
	Title  Title  `json:"title"`
	Height int    `json:"height,omitempty"`
	XAxis  *Axis  `json:"xaxis,omitempty"`
	YAxis  *Axis  `json:"yaxis,omitempty"`
	Scene  *Scene `json:"scene,omitempty"`
	// AutoSize lets the figure fill its container's width.
	AutoSize bool `json:"autosize"`
}

// Title is a plotly.js title object.
type Title struct {
	Text string `json:"text"`
}

// Axis is a plotly.js axis.
type Axis struct {
	Title         Title    `json:"title"`
	Type          string   `json:"type,omitempty"`
	CategoryOrder string   `json:"categoryorder,omitempty"`
	CategoryArray []string `json:"categoryarray,omitempty"`
}

// Scene holds the axes of a 3-D plot.
type Scene struct {
	XAxis Axis `json:"xaxis"`
	YAxis Axis `json:"yaxis"`
	ZAxis Axis `json:"zaxis"`
}

// JSON encodes the figure for a data attribute or an API response.
func (f *Figure) JSON() (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
