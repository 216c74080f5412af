package listings

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kaimana/makeke/internal/models"
)

// Memory is an in-process Store used by the CLI default and in tests.
type Memory struct {
	mu       sync.RWMutex
	listings []models.Listing
	now      func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// NewMemorySeeded creates an in-memory store preloaded with listings.
func NewMemorySeeded(seed []models.Listing) *Memory {
	m := NewMemory()
	m.listings = append(m.listings, seed...)
	return m
}

// Create appends the listing.
func (m *Memory) Create(ctx context.Context, l models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings = append(m.listings, l)
	return nil
}

// List returns matching listings, boosted first, newest first within each
// group.
func (m *Memory) List(ctx context.Context, f models.SearchFilters) ([]models.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	out := make([]models.Listing, 0, len(m.listings))
	for _, l := range m.listings {
		if matches(l, f) {
			out = append(out, l)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := out[i].Boosted(now), out[j].Boosted(now)
		if bi != bj {
			return bi
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Boost sets the boost expiry on a listing.
func (m *Memory) Boost(ctx context.Context, id string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.listings {
		if m.listings[i].ID == id {
			u := until
			m.listings[i].BoostedUntil = &u
			return nil
		}
	}
	return ErrNotFound
}
