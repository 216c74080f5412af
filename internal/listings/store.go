// Package listings provides the listings collaborator: create, filtered
// listing, and boost operations over a backing store.
package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kaimana/makeke/internal/models"
)

// ErrNotFound is returned when a listing id does not exist.
var ErrNotFound = errors.New("listing not found")

// Store is the listings collaborator interface. The chat core only calls
// Create; List and Boost serve the browse and boost surfaces.
type Store interface {
	// Create persists a new listing.
	Create(ctx context.Context, l models.Listing) error
	// List returns listings matching the filters, boosted first, newest
	// first within each group.
	List(ctx context.Context, f models.SearchFilters) ([]models.Listing, error)
	// Boost marks a listing as boosted until the given instant.
	Boost(ctx context.Context, id string, until time.Time) error
}

// matches reports whether a listing satisfies the filters. Shared by the
// in-memory store and tests.
func matches(l models.Listing, f models.SearchFilters) bool {
	if f.Query != "" && !containsFold(l.Title, f.Query) && !containsFold(l.Description, f.Query) {
		return false
	}
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.Location != "" && l.Location != f.Location {
		return false
	}
	if f.MinPrice != nil && l.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price > *f.MaxPrice {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
