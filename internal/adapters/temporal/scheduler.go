// Package temporaladapter implements ports.HoldScheduler on a Temporal
// client: each held booking gets a workflow whose only job is to cancel the
// hold when the window runs out.
package temporaladapter

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/minjae-ko/loopline/internal/workflows"
)

// HoldScheduler starts hold expiry workflows.
type HoldScheduler struct {
	client    client.Client
	taskQueue string
}

// New connects a HoldScheduler to a Temporal cluster.
func New(hostPort, namespace, taskQueue string) (*HoldScheduler, error) {
	c, err := client.Dial(client.Options{
		HostPort:  hostPort,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("temporal client: %w", err)
	}
	return &HoldScheduler{client: c, taskQueue: taskQueue}, nil
}

// ScheduleHoldExpiry starts a workflow for the booking. The workflow id is
// derived from the booking id so a retried schedule does not fork a second
// timer.
func (s *HoldScheduler) ScheduleHoldExpiry(ctx context.Context, bookingID string, holdMinutes int) error {
	opts := client.StartWorkflowOptions{
		ID:        "hold-expiry-" + bookingID,
		TaskQueue: s.taskQueue,
	}
	_, err := s.client.ExecuteWorkflow(ctx, opts, workflows.HoldExpiryWorkflow, workflows.HoldExpiryInput{
		BookingID:   bookingID,
		HoldMinutes: holdMinutes,
	})
	if err != nil {
		return fmt.Errorf("start hold expiry workflow: %w", err)
	}
	return nil
}

// Close releases the Temporal client.
func (s *HoldScheduler) Close() {
	s.client.Close()
}
