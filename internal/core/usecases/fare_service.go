package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
	"github.com/minjae-ko/loopline/internal/core/ports"
	"github.com/minjae-ko/loopline/internal/core/pricing"
)

// FarePreview is a fully priced quote for an itinerary, optionally with a
// coupon applied. Nothing is reserved by a preview.
type FarePreview struct {
	ItineraryID string        `json:"itinerary_id"`
	CouponCode  string        `json:"coupon_code,omitempty"`
	DepartAt    time.Time     `json:"depart_at"`
	Legs        []domain.Leg  `json:"legs"`
	Pricing     domain.Pricing `json:"pricing"`
}

// FareService computes fare quotes without touching booking state.
type FareService struct {
	engine      *pricing.Engine
	itineraries ports.ItineraryStore
	lines       map[string]domain.Line
}

// NewFareService creates a new FareService.
func NewFareService(engine *pricing.Engine, itineraries ports.ItineraryStore, lines map[string]domain.Line) *FareService {
	return &FareService{engine: engine, itineraries: itineraries, lines: lines}
}

// Preview prices a stored itinerary for the given departure time and coupon.
func (s *FareService) Preview(ctx context.Context, itineraryID, couponCode string, departAt time.Time) (*FarePreview, error) {
	if itineraryID == "" {
		return nil, fmt.Errorf("itinerary id is required")
	}

	itin, err := s.itineraries.Get(ctx, itineraryID)
	if err != nil {
		return nil, err
	}

	p, legs, err := s.engine.FinalBookingPrice(itin.Legs, couponCode, departAt, s.lines)
	if err != nil {
		return nil, fmt.Errorf("price itinerary %s: %w", itineraryID, err)
	}

	return &FarePreview{
		ItineraryID: itineraryID,
		CouponCode:  couponCode,
		DepartAt:    departAt,
		Legs:        legs,
		Pricing:     p,
	}, nil
}

// PreviewLegs prices caller-supplied legs directly, for quotes on trips that
// were never stored as an itinerary. Each leg needs a line id and base fare;
// a leg on an unknown line fails with ErrLineNotFound.
func (s *FareService) PreviewLegs(ctx context.Context, legs []domain.Leg, couponCode string, departAt time.Time) (*FarePreview, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("at least one leg is required")
	}

	p, priced, err := s.engine.FinalBookingPrice(legs, couponCode, departAt, s.lines)
	if err != nil {
		return nil, fmt.Errorf("price legs: %w", err)
	}

	return &FarePreview{
		CouponCode: couponCode,
		DepartAt:   departAt,
		Legs:       priced,
		Pricing:    p,
	}, nil
}
