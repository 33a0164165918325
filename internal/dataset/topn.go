package dataset

import (
	"fmt"
	"sort"
)

// DefaultTopN is the size of the ranked subset shown by the metric charts.
const DefaultTopN = 10

// TopN returns the n rows with the largest values of column, largest first.
// Ties keep table order and missing values sort last. The result shares the
// schema of d and holds its rows unchanged.
func TopN(d *Dataset, column string, n int) (*Dataset, error) {
	if !d.IsNumeric(column) {
		return nil, fmt.Errorf("rank by %q: not a numeric column", column)
	}
	if n < 0 {
		n = 0
	}

	order := make([]int, d.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, okA := d.Float(order[a], column)
		vb, okB := d.Float(order[b], column)
		switch {
		case !okA:
			return false
		case !okB:
			return true
		default:
			return va > vb
		}
	})

	if n < len(order) {
		order = order[:n]
	}
	rows := make([]Row, len(order))
	for i, r := range order {
		rows[i] = d.rows[r]
	}
	return d.withRows(rows), nil
}
