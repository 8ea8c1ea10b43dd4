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

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	createFn       func(ctx context.Context, booking *domain.Booking) error
	getByIDFn      func(ctx context.Context, id string) (*domain.Booking, error)
	listByUserFn   func(ctx context.Context, userID string) ([]domain.Booking, error)
	updateStatusFn func(ctx context.Context, id string, status domain.BookingStatus) error
	takenSeatsFn   func(ctx context.Context, lineID string, departAt time.Time) (map[string]bool, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *mockBookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepo) TakenSeats(ctx context.Context, lineID string, departAt time.Time) (map[string]bool, error) {
	if m.takenSeatsFn != nil {
		return m.takenSeatsFn(ctx, lineID, departAt)
	}
	return nil, nil
}

// --- Mock ItineraryStore ---

type mockItineraryStore struct {
	saveFn func(ctx context.Context, itin domain.Itinerary) error
	getFn  func(ctx context.Context, id string) (*domain.Itinerary, error)
}

func (m *mockItineraryStore) Save(ctx context.Context, itin domain.Itinerary) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, itin)
	}
	return nil
}

func (m *mockItineraryStore) Get(ctx context.Context, id string) (*domain.Itinerary, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrItineraryNotFound
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	created   []string
	cancelled []string
}

func (m *mockPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	m.created = append(m.created, booking.ID)
	return nil
}

func (m *mockPublisher) PublishBookingCancelled(ctx context.Context, bookingID string) error {
	m.cancelled = append(m.cancelled, bookingID)
	return nil
}

func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error { return nil }

// --- Fixtures ---

var bookingTestLines = map[string]domain.Line{
	"red":  {ID: "red", Type: domain.LineTypeCity, TransferDiscount1st: 0.5, TransferDiscount2nd: 0.3},
	"blue": {ID: "blue", Type: domain.LineTypeSuburb, TransferDiscount1st: 0.4, TransferDiscount2nd: 0.2},
}

func storedItinerary() *domain.Itinerary {
	return &domain.Itinerary{
		ID: "itin-1",
		Legs: []domain.Leg{
			{ID: "L1", LineID: "red", BaseFare: 1000, DurationMinutes: 10},
			{ID: "L2", LineID: "blue", BaseFare: 2000, DurationMinutes: 15},
		},
	}
}

func bookingService(repo *mockBookingRepo, store *mockItineraryStore, pub *mockPublisher) *usecases.BookingService {
	engine := pricing.NewEngine(nil)
	// A typed nil pointer would look non-nil through the interface, so the
	// publisher argument is branched explicitly.
	if pub == nil {
		return usecases.NewBookingService(repo, store, engine, bookingTestLines, nil, nil, nil, 15, nil)
	}
	return usecases.NewBookingService(repo, store, engine, bookingTestLines, pub, nil, nil, 15, nil)
}

func createReq() usecases.CreateBookingRequest {
	return usecases.CreateBookingRequest{
		UserID:      "user-1",
		ItineraryID: "itin-1",
		Seats:       []string{"12A"},
		DepartAt:    time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

// --- Tests ---

func TestBookingService_CreateFreezesPricing(t *testing.T) {
	var stored *domain.Booking
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *domain.Booking) error {
			stored = booking
			return nil
		},
	}
	store := &mockItineraryStore{
		getFn: func(ctx context.Context, id string) (*domain.Itinerary, error) {
			return storedItinerary(), nil
		},
	}
	pub := &mockPublisher{}

	svc := bookingService(repo, store, pub)
	booking, err := svc.Create(context.Background(), createReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingHeld {
		t.Errorf("status = %s, want HELD", booking.Status)
	}
	if booking.ID == "" {
		t.Error("booking must get a generated id")
	}
	// 1000 + 2000 minus blue's 0.4 first-transfer discount on leg 2.
	if booking.Pricing.FinalTotal != 2200 {
		t.Errorf("final total = %v, want 2200", booking.Pricing.FinalTotal)
	}
	if stored == nil || stored.ID != booking.ID {
		t.Error("booking must be persisted before returning")
	}
	if len(pub.created) != 1 || pub.created[0] != booking.ID {
		t.Errorf("created events = %v, want one for the booking", pub.created)
	}
}

func TestBookingService_CreateRejectsTakenSeat(t *testing.T) {
	repo := &mockBookingRepo{
		takenSeatsFn: func(ctx context.Context, lineID string, departAt time.Time) (map[string]bool, error) {
			if lineID == "blue" {
				return map[string]bool{"12A": true}, nil
			}
			return nil, nil
		},
	}
	store := &mockItineraryStore{
		getFn: func(ctx context.Context, id string) (*domain.Itinerary, error) {
			return storedItinerary(), nil
		},
	}

	svc := bookingService(repo, store, nil)
	_, err := svc.Create(context.Background(), createReq())
	if !errors.Is(err, domain.ErrSeatTaken) {
		t.Fatalf("expected ErrSeatTaken, got %v", err)
	}
}

func TestBookingService_CreateUnknownItinerary(t *testing.T) {
	svc := bookingService(&mockBookingRepo{}, &mockItineraryStore{}, nil)
	_, err := svc.Create(context.Background(), createReq())
	if !errors.Is(err, domain.ErrItineraryNotFound) {
		t.Fatalf("expected ErrItineraryNotFound, got %v", err)
	}
}

func TestBookingService_CreateRequiresSeats(t *testing.T) {
	svc := bookingService(&mockBookingRepo{}, &mockItineraryStore{}, nil)
	req := createReq()
	req.Seats = nil
	if _, err := svc.Create(context.Background(), req); err == nil {
		t.Fatal("expected an error for an empty seat list")
	}
}

func TestBookingService_ConfirmOnlyFromHeld(t *testing.T) {
	status := domain.BookingHeld
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Booking, error) {
			return &domain.Booking{ID: id, Status: status}, nil
		},
		updateStatusFn: func(ctx context.Context, id string, s domain.BookingStatus) error {
			status = s
			return nil
		},
	}

	svc := bookingService(repo, &mockItineraryStore{}, nil)
	booking, err := svc.Confirm(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != domain.BookingConfirmed {
		t.Errorf("status = %s, want CONFIRMED", booking.Status)
	}

	// Confirming again must fail: the booking is no longer held.
	if _, err := svc.Confirm(context.Background(), "b1"); !errors.Is(err, domain.ErrInvalidBookingState) {
		t.Fatalf("expected ErrInvalidBookingState, got %v", err)
	}
}

func TestBookingService_CancelPublishesEvent(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Booking, error) {
			return &domain.Booking{ID: id, Status: domain.BookingConfirmed}, nil
		},
	}
	pub := &mockPublisher{}

	svc := bookingService(repo, &mockItineraryStore{}, pub)
	booking, err := svc.Cancel(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != domain.BookingCancelled {
		t.Errorf("status = %s, want CANCELLED", booking.Status)
	}
	if len(pub.cancelled) != 1 || pub.cancelled[0] != "b1" {
		t.Errorf("cancelled events = %v, want one for b1", pub.cancelled)
	}
}

func TestBookingService_CancelRejectsAlreadyCancelled(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Booking, error) {
			return &domain.Booking{ID: id, Status: domain.BookingCancelled}, nil
		},
	}
	svc := bookingService(repo, &mockItineraryStore{}, nil)
	if _, err := svc.Cancel(context.Background(), "b1"); !errors.Is(err, domain.ErrInvalidBookingState) {
		t.Fatalf("expected ErrInvalidBookingState, got %v", err)
	}
}

func TestBookingService_ExpireHoldSkipsConfirmed(t *testing.T) {
	updated := false
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Booking, error) {
			return &domain.Booking{ID: id, Status: domain.BookingConfirmed}, nil
		},
		updateStatusFn: func(ctx context.Context, id string, s domain.BookingStatus) error {
			updated = true
			return nil
		},
	}

	svc := bookingService(repo, &mockItineraryStore{}, nil)
	if err := svc.ExpireHold(context.Background(), "b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated {
		t.Error("expiring a confirmed booking must be a no-op")
	}
}

func TestBookingService_ExpireHoldCancelsHeld(t *testing.T) {
	var got domain.BookingStatus
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Booking, error) {
			return &domain.Booking{ID: id, Status: domain.BookingHeld}, nil
		},
		updateStatusFn: func(ctx context.Context, id string, s domain.BookingStatus) error {
			got = s
			return nil
		},
	}
	pub := &mockPublisher{}

	svc := bookingService(repo, &mockItineraryStore{}, pub)
	if err := svc.ExpireHold(context.Background(), "b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.BookingCancelled {
		t.Errorf("status = %s, want CANCELLED", got)
	}
	if len(pub.cancelled) != 1 {
		t.Errorf("cancelled events = %v, want one", pub.cancelled)
	}
}
