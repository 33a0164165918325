// Package dashboard turns a dataset and the viewer's widget state into the
// dashboard view model.
package dashboard

import (
	"slices"

	"github.com/leapstack-labs/moviescope/internal/chart"
	"github.com/leapstack-labs/moviescope/internal/dataset"
)

// State is the value of every widget on the page. The JSON names are the
// datastar signal names.
type State struct {
	PopularityKind string `json:"popularityKind"`
	VoteCountKind  string `json:"voteCountKind"`

	BiX string `json:"biX"`
	BiY string `json:"biY"`

	TriX string `json:"triX"`
	TriY string `json:"triY"`
	TriZ string `json:"triZ"`

	// Page is the zero-based page of the dataset table.
	Page int `json:"page"`
}

// DefaultState is the state of a fresh page: the first chart kind in every
// selector and the first numeric column in every radio group.
func DefaultState(ds *dataset.Dataset) State {
	first := firstNumeric(ds)
	kind := chart.MetricKinds()[0].Label()
	return State{
		PopularityKind: kind,
		VoteCountKind:  kind,
		BiX:            first,
		BiY:            first,
		TriX:           first,
		TriY:           first,
		TriZ:           first,
	}
}

// Normalize replaces every selection that is not a valid option for ds with
// its default. Valid selections are kept as is, including repeated axes.
func Normalize(s State, ds *dataset.Dataset) State {
	def := DefaultState(ds)
	numeric := ds.NumericColumns()

	s.PopularityKind = validKind(s.PopularityKind, def.PopularityKind)
	s.VoteCountKind = validKind(s.VoteCountKind, def.VoteCountKind)

	for _, axis := range []*string{&s.BiX, &s.BiY, &s.TriX, &s.TriY, &s.TriZ} {
		if !slices.Contains(numeric, *axis) {
			*axis = def.BiX
		}
	}

	s.Page = max(s.Page, 0)
	return s
}

func validKind(label, fallback string) string {
	if slices.Contains(chart.MetricLabels(), label) {
		return label
	}
	return fallback
}

func firstNumeric(ds *dataset.Dataset) string {
	if numeric := ds.NumericColumns(); len(numeric) > 0 {
		return numeric[0]
	}
	return ""
}
