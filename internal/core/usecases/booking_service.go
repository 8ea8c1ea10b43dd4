package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/minjae-ko/loopline/internal/core/domain"
	"github.com/minjae-ko/loopline/internal/core/ports"
	"github.com/minjae-ko/loopline/internal/core/pricing"
)

// CreateBookingRequest carries everything needed to hold seats on an
// itinerary that came out of a search.
type CreateBookingRequest struct {
	UserID      string    `json:"user_id"`
	ItineraryID string    `json:"itinerary_id"`
	Seats       []string  `json:"seats"`
	CouponCode  string    `json:"coupon_code,omitempty"`
	DepartAt    time.Time `json:"depart_at"`
}

// BookingService handles the booking lifecycle: hold, confirm, cancel.
type BookingService struct {
	bookings    ports.BookingRepository
	itineraries ports.ItineraryStore
	engine      *pricing.Engine
	lines       map[string]domain.Line
	publisher   ports.EventPublisher
	archiver    ports.BookingArchiver
	holds       ports.HoldScheduler
	holdMinutes int
	logger      *slog.Logger
}

// NewBookingService creates a new BookingService. publisher, archiver and
// holds may be nil; the service degrades to a plain store then.
func NewBookingService(
	bookings ports.BookingRepository,
	itineraries ports.ItineraryStore,
	engine *pricing.Engine,
	lines map[string]domain.Line,
	publisher ports.EventPublisher,
	archiver ports.BookingArchiver,
	holds ports.HoldScheduler,
	holdMinutes int,
	logger *slog.Logger,
) *BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	if holdMinutes <= 0 {
		holdMinutes = 15
	}
	return &BookingService{
		bookings:    bookings,
		itineraries: itineraries,
		engine:      engine,
		lines:       lines,
		publisher:   publisher,
		archiver:    archiver,
		holds:       holds,
		holdMinutes: holdMinutes,
		logger:      logger,
	}
}

// Create holds seats on an itinerary. The fare breakdown is computed once
// here and frozen on the booking.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if len(req.Seats) == 0 {
		return nil, fmt.Errorf("at least one seat is required")
	}

	itin, err := s.itineraries.Get(ctx, req.ItineraryID)
	if err != nil {
		return nil, err
	}

	// Seat conflict check runs per leg: a seat is line-scoped, so the same
	// seat label on different lines of the trip is fine.
	for _, leg := range itin.Legs {
		taken, err := s.bookings.TakenSeats(ctx, leg.LineID, req.DepartAt)
		if err != nil {
			return nil, fmt.Errorf("check seats on line %s: %w", leg.LineID, err)
		}
		for _, seat := range req.Seats {
			if taken[seat] {
				return nil, fmt.Errorf("seat %s on line %s: %w", seat, leg.LineID, domain.ErrSeatTaken)
			}
		}
	}

	p, legs, err := s.engine.FinalBookingPrice(itin.Legs, req.CouponCode, req.DepartAt, s.lines)
	if err != nil {
		return nil, fmt.Errorf("price booking: %w", err)
	}

	booking := &domain.Booking{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		ItineraryID: req.ItineraryID,
		Legs:        legs,
		Seats:       req.Seats,
		CouponCode:  req.CouponCode,
		DepartAt:    req.DepartAt,
		Pricing:     p,
		Status:      domain.BookingHeld,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("store booking: %w", err)
	}

	if s.holds != nil {
		if err := s.holds.ScheduleHoldExpiry(ctx, booking.ID, s.holdMinutes); err != nil {
			s.logger.Warn("failed to schedule hold expiry", "booking_id", booking.ID, "error", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishBookingCreated(ctx, booking); err != nil {
			s.logger.Warn("failed to publish booking created", "booking_id", booking.ID, "error", err)
		}
	}

	return booking, nil
}

// Get returns a booking by id.
func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// ListByUser returns all bookings belonging to a user.
func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.bookings.ListByUser(ctx, userID)
}

// Confirm finalizes a held booking. Confirmed bookings are archived when an
// archive is configured.
func (s *BookingService) Confirm(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingHeld {
		return nil, fmt.Errorf("booking %s is %s: %w", id, booking.Status, domain.ErrInvalidBookingState)
	}

	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingConfirmed); err != nil {
		return nil, fmt.Errorf("confirm booking: %w", err)
	}
	booking.Status = domain.BookingConfirmed

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, booking); err != nil {
			s.logger.Warn("failed to archive booking", "booking_id", id, "error", err)
		}
	}

	return booking, nil
}

// Cancel cancels a held or confirmed booking and releases its seats.
func (s *BookingService) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingCancelled {
		return nil, fmt.Errorf("booking %s already cancelled: %w", id, domain.ErrInvalidBookingState)
	}

	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingCancelled); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	booking.Status = domain.BookingCancelled

	if s.publisher != nil {
		if err := s.publisher.PublishBookingCancelled(ctx, id); err != nil {
			s.logger.Warn("failed to publish booking cancelled", "booking_id", id, "error", err)
		}
	}

	return booking, nil
}

// ExpireHold cancels a booking only if it is still held. Invoked by the hold
// expiry workflow; a booking confirmed in the meantime is left untouched.
func (s *BookingService) ExpireHold(ctx context.Context, id string) error {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.Status != domain.BookingHeld {
		return nil
	}

	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingCancelled); err != nil {
		return fmt.Errorf("expire hold: %w", err)
	}
	s.logger.Info("booking hold expired", "booking_id", id)

	if s.publisher != nil {
		if err := s.publisher.PublishBookingCancelled(ctx, id); err != nil {
			s.logger.Warn("failed to publish booking cancelled", "booking_id", id, "error", err)
		}
	}
	return nil
}
