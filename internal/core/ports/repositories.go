package ports

import (
	"context"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
)

// ItineraryStore keeps search results addressable by id so a later booking
// can reference the exact legs that were quoted.
type ItineraryStore interface {
	Save(ctx context.Context, itin domain.Itinerary) error
	Get(ctx context.Context, id string) (*domain.Itinerary, error)
}

// BookingRepository persists bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	// TakenSeats returns the seats already held or confirmed on a line
	// for a given departure time.
	TakenSeats(ctx context.Context, lineID string, departAt time.Time) (map[string]bool, error)
}

// BookingArchiver is a best-effort write-behind archive of finalized
// bookings (reporting storage, not the authoritative store).
type BookingArchiver interface {
	Archive(ctx context.Context, booking *domain.Booking) error
}

// CouponWalletRepository tracks which coupons a user has claimed.
type CouponWalletRepository interface {
	Add(ctx context.Context, claimed domain.ClaimedCoupon) error
	CountByUserAndCode(ctx context.Context, userID, code string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ClaimedCoupon, error)
}
