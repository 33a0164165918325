package dataset

import "slices"

// Column names of the movie metadata file.
const (
	ColumnID          = "id"
	ColumnReleaseDate = "release_date"
	ColumnTitle       = "title"
	ColumnPopularity  = "popularity"
	ColumnVoteCount   = "vote_count"
)

// Schema describes what the loader expects from a file and how it shapes the
// result.
type Schema struct {
	// Required columns must be present in the header.
	Required []string
	// Numeric columns must be typed as numbers. They are implicitly required.
	Numeric []string
	// Drop lists columns removed from the result when present.
	Drop []string
	// Dates lists columns parsed as dates when present.
	Dates []string
}

// MovieSchema is the schema of the movie metadata file.
func MovieSchema() Schema {
	return Schema{
		Required: []string{ColumnID, ColumnReleaseDate, ColumnTitle, ColumnPopularity, ColumnVoteCount},
		Numeric:  []string{ColumnPopularity, ColumnVoteCount},
		Drop:     []string{ColumnID},
		Dates:    []string{ColumnReleaseDate},
	}
}

// WithDrop returns a copy of s that drops the given columns instead.
func (s Schema) WithDrop(cols ...string) Schema {
	s.Drop = slices.Clone(cols)
	return s
}

// WithDates returns a copy of s that parses the given columns as dates instead.
func (s Schema) WithDates(cols ...string) Schema {
	s.Dates = slices.Clone(cols)
	return s
}

func (s Schema) required() []string {
	out := slices.Clone(s.Required)
	for _, c := range s.Numeric {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func (s Schema) drops(col string) bool { return slices.Contains(s.Drop, col) }

func (s Schema) isDate(col string) bool { return slices.Contains(s.Dates, col) }
