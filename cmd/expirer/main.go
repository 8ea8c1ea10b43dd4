package main

import (
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/minjae-ko/loopline/internal/adapters/memory"
	"github.com/minjae-ko/loopline/internal/core/catalog"
	"github.com/minjae-ko/loopline/internal/core/pricing"
	"github.com/minjae-ko/loopline/internal/core/usecases"
	"github.com/minjae-ko/loopline/internal/pkg/config"
	"github.com/minjae-ko/loopline/internal/pkg/logging"
	"github.com/minjae-ko/loopline/internal/workflows"
)

func main() {
	cfg, err := config.Load("loopline-expirer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup("loopline-expirer", cfg.Log.Level, cfg.Log.Format)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	// The expirer shares the api's booking store in deployments where both
	// run in one process. Standing alone it still expires holds scheduled
	// against its own store.
	bookings := usecases.NewBookingService(
		memory.NewBookingRepository(),
		memory.NewItineraryStore(0),
		pricing.NewEngine(catalog.CouponMap()),
		catalog.LineMap(),
		nil, nil, nil,
		cfg.Booking.HoldMinutes,
		logger,
	)

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.HoldExpiryWorkflow)
	w.RegisterActivity(&workflows.HoldExpiryActivities{Bookings: bookings})

	logger.Info("expirer worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
