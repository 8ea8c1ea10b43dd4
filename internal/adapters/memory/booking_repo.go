package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
)

// BookingRepository is the authoritative in-memory booking store.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
}

// NewBookingRepository creates an empty BookingRepository.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[string]domain.Booking)}
}

// Create stores a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = *booking
	return nil
}

// GetByID returns a booking or domain.ErrBookingNotFound.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &booking, nil
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateStatus transitions a booking to the given status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	booking.Status = status
	r.bookings[id] = booking
	return nil
}

// TakenSeats collects the seats of non-cancelled bookings riding the given
// line at the given departure time.
func (r *BookingRepository) TakenSeats(ctx context.Context, lineID string, departAt time.Time) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	taken := make(map[string]bool)
	for _, b := range r.bookings {
		if b.Status == domain.BookingCancelled || !b.DepartAt.Equal(departAt) {
			continue
		}
		for _, leg := range b.Legs {
			if leg.LineID != lineID {
				continue
			}
			for _, seat := range b.Seats {
				taken[seat] = true
			}
			break
		}
	}
	return taken, nil
}
