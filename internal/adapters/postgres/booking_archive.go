package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
)

// BookingArchive implements ports.BookingArchiver. Legs and the pricing
// breakdown go in as JSONB so the archive survives fare model changes.
type BookingArchive struct {
	db *DB
}

func NewBookingArchive(db *DB) *BookingArchive {
	return &BookingArchive{db: db}
}

func (r *BookingArchive) Archive(ctx context.Context, booking *domain.Booking) error {
	legs, err := json.Marshal(booking.Legs)
	if err != nil {
		return fmt.Errorf("marshal legs: %w", err)
	}
	pricing, err := json.Marshal(booking.Pricing)
	if err != nil {
		return fmt.Errorf("marshal pricing: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO booking_archive
			(booking_id, user_id, itinerary_id, legs, seats, coupon_code, depart_at, pricing, status, created_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (booking_id) DO UPDATE
		SET status = EXCLUDED.status, archived_at = EXCLUDED.archived_at
	`, booking.ID, booking.UserID, booking.ItineraryID, legs, booking.Seats,
		booking.CouponCode, booking.DepartAt, pricing, string(booking.Status),
		booking.CreatedAt, time.Now().UTC())
	return err
}

// GetByID returns an archived booking, mostly for reporting tooling.
func (r *BookingArchive) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var (
		b       domain.Booking
		legs    []byte
		pricing []byte
		status  string
	)
	err := r.db.Pool.QueryRow(ctx, `
		SELECT booking_id, user_id, itinerary_id, legs, seats, COALESCE(coupon_code, ''), depart_at, pricing, status, created_at
		FROM booking_archive WHERE booking_id = $1
	`, bookingID).Scan(&b.ID, &b.UserID, &b.ItineraryID, &legs, &b.Seats,
		&b.CouponCode, &b.DepartAt, &pricing, &status, &b.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(legs, &b.Legs); err != nil {
		return nil, fmt.Errorf("unmarshal legs: %w", err)
	}
	if err := json.Unmarshal(pricing, &b.Pricing); err != nil {
		return nil, fmt.Errorf("unmarshal pricing: %w", err)
	}
	b.Status = domain.BookingStatus(status)
	return &b, nil
}
