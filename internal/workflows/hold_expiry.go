package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// HoldExpiryInput is the input for the booking hold expiry workflow.
type HoldExpiryInput struct {
	BookingID   string
	HoldMinutes int
}

// HoldExpiryWorkflow sleeps out the hold window and then cancels the booking
// if it is still held. The activity is a no-op for bookings confirmed or
// cancelled in the meantime, so replays and duplicate schedules are safe.
func HoldExpiryWorkflow(ctx workflow.Context, input HoldExpiryInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting hold expiry workflow", "bookingID", input.BookingID, "holdMinutes", input.HoldMinutes)

	hold := time.Duration(input.HoldMinutes) * time.Minute
	if hold <= 0 {
		hold = 15 * time.Minute
	}
	if err := workflow.Sleep(ctx, hold); err != nil {
		return err
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	if err := workflow.ExecuteActivity(ctx, "ExpireBookingHold", input.BookingID).Get(ctx, nil); err != nil {
		return err
	}

	logger.Info("Hold expiry processed", "bookingID", input.BookingID)
	return nil
}
