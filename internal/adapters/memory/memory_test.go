package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minjae-ko/loopline/internal/adapters/memory"
	"github.com/minjae-ko/loopline/internal/core/domain"
)

func TestItineraryStoreRoundTrip(t *testing.T) {
	store := memory.NewItineraryStore(time.Minute)
	ctx := context.Background()

	itin := domain.Itinerary{ID: "itin-1", TransferCount: 1}
	if err := store.Save(ctx, itin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, "itin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TransferCount != 1 {
		t.Errorf("transfer count = %d, want 1", got.TransferCount)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrItineraryNotFound) {
		t.Fatalf("expected ErrItineraryNotFound, got %v", err)
	}
}

func TestBookingRepositoryLifecycle(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := context.Background()
	departAt := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	booking := &domain.Booking{
		ID:       "b1",
		UserID:   "user-1",
		Legs:     []domain.Leg{{ID: "L1", LineID: "red"}},
		Seats:    []string{"3C"},
		DepartAt: departAt,
		Status:   domain.BookingHeld,
	}
	if err := repo.Create(ctx, booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.UpdateStatus(ctx, "b1", domain.BookingConfirmed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := repo.GetByID(ctx, "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.BookingConfirmed {
		t.Errorf("status = %s, want CONFIRMED", got.Status)
	}

	if err := repo.UpdateStatus(ctx, "missing", domain.BookingCancelled); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestBookingRepositoryTakenSeats(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := context.Background()
	departAt := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	held := &domain.Booking{
		ID: "b1", UserID: "u1", Status: domain.BookingHeld, DepartAt: departAt,
		Legs:  []domain.Leg{{ID: "L1", LineID: "red"}},
		Seats: []string{"1A", "1B"},
	}
	cancelled := &domain.Booking{
		ID: "b2", UserID: "u2", Status: domain.BookingCancelled, DepartAt: departAt,
		Legs:  []domain.Leg{{ID: "L1", LineID: "red"}},
		Seats: []string{"2A"},
	}
	otherLine := &domain.Booking{
		ID: "b3", UserID: "u3", Status: domain.BookingConfirmed, DepartAt: departAt,
		Legs:  []domain.Leg{{ID: "L1", LineID: "blue"}},
		Seats: []string{"3A"},
	}
	for _, b := range []*domain.Booking{held, cancelled, otherLine} {
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	taken, err := repo.TakenSeats(ctx, "red", departAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !taken["1A"] || !taken["1B"] {
		t.Errorf("taken = %v, want the held booking's seats", taken)
	}
	// Cancelled bookings release their seats; other lines do not collide.
	if taken["2A"] || taken["3A"] {
		t.Errorf("taken = %v, must exclude cancelled and other-line seats", taken)
	}

	// A different departure time is a different vehicle run.
	later, err := repo.TakenSeats(ctx, "red", departAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(later) != 0 {
		t.Errorf("taken at +1h = %v, want empty", later)
	}
}

func TestBookingRepositoryListByUserNewestFirst(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := context.Background()
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new"} {
		b := &domain.Booking{
			ID: id, UserID: "u1", Status: domain.BookingHeld,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "old" {
		t.Fatalf("list = %v, want newest first", got)
	}
}

func TestCouponWalletRepository(t *testing.T) {
	repo := memory.NewCouponWalletRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		claim := domain.ClaimedCoupon{UserID: "u1", Code: "RIDER5", ClaimedAt: time.Now()}
		if err := repo.Add(ctx, claim); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := repo.Add(ctx, domain.ClaimedCoupon{UserID: "u1", Code: "WELCOME"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n, err := repo.CountByUserAndCode(ctx, "u1", "RIDER5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}

	claims, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 4 {
		t.Errorf("got %d claims, want 4", len(claims))
	}

	other, _ := repo.CountByUserAndCode(ctx, "u2", "RIDER5")
	if other != 0 {
		t.Errorf("other user count = %d, want 0", other)
	}
}
