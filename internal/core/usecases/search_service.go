package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/minjae-ko/loopline/internal/core/domain"
	"github.com/minjae-ko/loopline/internal/core/pathfind"
	"github.com/minjae-ko/loopline/internal/core/ports"
)

// SearchService runs itinerary searches and keeps results retrievable by id.
type SearchService struct {
	finder      *pathfind.Pathfinder
	itineraries ports.ItineraryStore
	cache       ports.CacheService
}

// NewSearchService creates a new SearchService.
func NewSearchService(finder *pathfind.Pathfinder, itineraries ports.ItineraryStore, cache ports.CacheService) *SearchService {
	return &SearchService{finder: finder, itineraries: itineraries, cache: cache}
}

// Search returns up to three tagged itineraries between two stations. Results
// are stored so a later fare preview or booking can reference them by id.
func (s *SearchService) Search(ctx context.Context, fromStationID, toStationID string) ([]domain.Itinerary, error) {
	if fromStationID == "" || toStationID == "" {
		return nil, fmt.Errorf("both origin and destination station ids are required")
	}

	// Try cache. Cached itineraries were stored on the write path, so their
	// ids still resolve.
	cacheKey := fmt.Sprintf("itineraries:%s:%s", fromStationID, toStationID)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var results []domain.Itinerary
			if err := json.Unmarshal(data, &results); err == nil {
				return results, nil
			}
		}
	}

	results, err := s.finder.SearchItineraries(fromStationID, toStationID)
	if err != nil {
		return nil, err
	}

	for _, itin := range results {
		if err := s.itineraries.Save(ctx, itin); err != nil {
			return nil, fmt.Errorf("save itinerary %s: %w", itin.ID, err)
		}
	}

	// Cache for 60 seconds, matching the itinerary hold expectations of the
	// booking flow rather than the static network data underneath.
	if s.cache != nil && len(results) > 0 {
		if data, err := json.Marshal(results); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return results, nil
}

// GetItinerary returns a previously searched itinerary.
func (s *SearchService) GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error) {
	if id == "" {
		return nil, fmt.Errorf("itinerary id is required")
	}
	return s.itineraries.Get(ctx, id)
}
