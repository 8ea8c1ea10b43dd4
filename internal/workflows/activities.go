package workflows

import (
	"context"
	"fmt"

	"github.com/minjae-ko/loopline/internal/core/usecases"
)

// HoldExpiryActivities holds the activity implementations for the hold
// expiry workflow.
type HoldExpiryActivities struct {
	Bookings *usecases.BookingService
}

// ExpireBookingHold cancels a booking that is still held.
func (a *HoldExpiryActivities) ExpireBookingHold(ctx context.Context, bookingID string) error {
	if err := a.Bookings.ExpireHold(ctx, bookingID); err != nil {
		return fmt.Errorf("expire hold %s: %w", bookingID, err)
	}
	return nil
}
