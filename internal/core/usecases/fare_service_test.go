package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
	"github.com/minjae-ko/loopline/internal/core/pricing"
	"github.com/minjae-ko/loopline/internal/core/usecases"
)

func fareCoupons() map[string]domain.Coupon {
	return map[string]domain.Coupon{
		"FLAT500": {Code: "FLAT500", Type: domain.CouponFixedAmount, Value: 500, OwnLimit: 1},
	}
}

func TestFareService_PreviewWithCoupon(t *testing.T) {
	store := &mockItineraryStore{
		getFn: func(ctx context.Context, id string) (*domain.Itinerary, error) {
			return storedItinerary(), nil
		},
	}
	svc := usecases.NewFareService(pricing.NewEngine(fareCoupons()), store, bookingTestLines)

	departAt := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	preview, err := svc.Preview(context.Background(), "itin-1", "FLAT500", departAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Subtotal 3000, transfer discount 800 (blue leg), flat 500 per fared
	// leg twice.
	if preview.Pricing.TransferDiscount != 800 {
		t.Errorf("transfer discount = %v, want 800", preview.Pricing.TransferDiscount)
	}
	if preview.Pricing.CouponDiscount != 1000 {
		t.Errorf("coupon discount = %v, want 1000", preview.Pricing.CouponDiscount)
	}
	if preview.Pricing.FinalTotal != 1200 {
		t.Errorf("final total = %v, want 1200", preview.Pricing.FinalTotal)
	}
	if len(preview.Legs) != 2 {
		t.Errorf("got %d priced legs, want 2", len(preview.Legs))
	}
}

func TestFareService_PreviewWithoutCoupon(t *testing.T) {
	store := &mockItineraryStore{
		getFn: func(ctx context.Context, id string) (*domain.Itinerary, error) {
			return storedItinerary(), nil
		},
	}
	svc := usecases.NewFareService(pricing.NewEngine(fareCoupons()), store, bookingTestLines)

	preview, err := svc.Preview(context.Background(), "itin-1", "", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preview.Pricing.CouponDiscount != 0 {
		t.Errorf("coupon discount = %v, want 0", preview.Pricing.CouponDiscount)
	}
}

func TestFareService_PreviewLegsPricesInlineTrip(t *testing.T) {
	svc := usecases.NewFareService(pricing.NewEngine(fareCoupons()), &mockItineraryStore{}, bookingTestLines)

	legs := []domain.Leg{
		{ID: "l1", LineID: "red", BaseFare: 1000, DurationMinutes: 15},
		{ID: "l2", LineID: "blue", BaseFare: 2000, DurationMinutes: 25},
	}
	departAt := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	preview, err := svc.PreviewLegs(context.Background(), legs, "FLAT500", departAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if preview.Pricing.CouponDiscount != 1000 {
		t.Errorf("coupon discount = %v, want 1000", preview.Pricing.CouponDiscount)
	}
	// The returned legs carry their own share of the coupon.
	for i, leg := range preview.Legs {
		if leg.CouponDiscount != 500 {
			t.Errorf("leg %d coupon discount = %v, want 500", i, leg.CouponDiscount)
		}
	}
	if preview.ItineraryID != "" {
		t.Errorf("itinerary id = %q, want empty for an inline trip", preview.ItineraryID)
	}
}

func TestFareService_PreviewLegsValidation(t *testing.T) {
	svc := usecases.NewFareService(pricing.NewEngine(nil), &mockItineraryStore{}, bookingTestLines)

	if _, err := svc.PreviewLegs(context.Background(), nil, "", time.Now()); err == nil {
		t.Error("expected an error for an empty leg list")
	}

	legs := []domain.Leg{{ID: "l1", LineID: "ghost", BaseFare: 100}}
	_, err := svc.PreviewLegs(context.Background(), legs, "", time.Now())
	if !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestFareService_PreviewUnknownItinerary(t *testing.T) {
	svc := usecases.NewFareService(pricing.NewEngine(nil), &mockItineraryStore{}, bookingTestLines)
	_, err := svc.Preview(context.Background(), "missing", "", time.Now())
	if !errors.Is(err, domain.ErrItineraryNotFound) {
		t.Fatalf("expected ErrItineraryNotFound, got %v", err)
	}
}
