// Package memory provides in-memory implementations of the storage ports.
// Itineraries, bookings and coupon wallets are simulation state, not durable
// records, so process-local maps are the primary store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
)

// ItineraryStore keeps searched itineraries with a sliding expiry so the map
// does not grow without bound.
type ItineraryStore struct {
	mu      sync.RWMutex
	items   map[string]storedItinerary
	ttl     time.Duration
	nowFunc func() time.Time
}

type storedItinerary struct {
	itin      domain.Itinerary
	expiresAt time.Time
}

// NewItineraryStore creates an ItineraryStore whose entries expire after ttl.
// A non-positive ttl keeps entries for an hour.
func NewItineraryStore(ttl time.Duration) *ItineraryStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ItineraryStore{
		items:   make(map[string]storedItinerary),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Save stores an itinerary under its id.
func (s *ItineraryStore) Save(ctx context.Context, itin domain.Itinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[itin.ID] = storedItinerary{itin: itin, expiresAt: s.nowFunc().Add(s.ttl)}
	return nil
}

// Get returns a stored itinerary or domain.ErrItineraryNotFound.
func (s *ItineraryStore) Get(ctx context.Context, id string) (*domain.Itinerary, error) {
	s.mu.RLock()
	entry, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrItineraryNotFound
	}
	if s.nowFunc().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.items, id)
		s.mu.Unlock()
		return nil, domain.ErrItineraryNotFound
	}
	itin := entry.itin
	return &itin, nil
}
