// Package dashboard provides the dashboard page and its datastar actions.
package dashboard

import (
	"context"

	"github.com/leapstack-labs/moviescope/internal/dataset"
)

// Source supplies the dataset for a request.
type Source interface {
	Dataset(ctx context.Context) (*dataset.Dataset, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*dataset.Dataset, error)

// Dataset calls f.
func (f SourceFunc) Dataset(ctx context.Context) (*dataset.Dataset, error) { return f(ctx) }

// CacheSource serves the dataset at path through cache.
func CacheSource(cache *dataset.Cache, path string) Source {
	return SourceFunc(func(ctx context.Context) (*dataset.Dataset, error) {
		return cache.Get(ctx, path)
	})
}

// Health is the body of the liveness endpoint.
type Health struct {
	Status string `json:"status"`
	Rows   int    `json:"rows,omitempty"`
	Error  string `json:"error,omitempty"`
}
