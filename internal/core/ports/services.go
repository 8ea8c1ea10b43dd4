package ports

import (
	"context"

	"github.com/minjae-ko/loopline/internal/core/domain"
)

// EventPublisher publishes booking lifecycle events to a message broker.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, booking *domain.Booking) error
	PublishBookingCancelled(ctx context.Context, bookingID string) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// HoldScheduler arranges for a held booking to be auto-cancelled if it is
// not confirmed within the hold window.
type HoldScheduler interface {
	ScheduleHoldExpiry(ctx context.Context, bookingID string, holdMinutes int) error
}
