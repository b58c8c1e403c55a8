// Package search provides the search adapter: a typed contract over an
// external web search provider.
package search

import (
	"context"

	"tripplanner/pkg/itinerary"
)

// Query is one search request. Limit caps the number of results returned.
type Query struct {
	Text  string
	Limit int
}

// Provider is the narrow contract a search backend implements. Failures are
// returned as errors, never as sentinel values.
type Provider interface {
	Search(ctx context.Context, q Query) ([]itinerary.SearchResult, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, q Query) ([]itinerary.SearchResult, error)

func (f ProviderFunc) Search(ctx context.Context, q Query) ([]itinerary.SearchResult, error) {
	return f(ctx, q)
}
