package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/minjae-ko/loopline/internal/adapters/http"
	"github.com/minjae-ko/loopline/internal/adapters/memory"
	natsadapter "github.com/minjae-ko/loopline/internal/adapters/nats"
	"github.com/minjae-ko/loopline/internal/adapters/postgres"
	temporaladapter "github.com/minjae-ko/loopline/internal/adapters/temporal"
	"github.com/minjae-ko/loopline/internal/adapters/valkey"
	"github.com/minjae-ko/loopline/internal/core/catalog"
	"github.com/minjae-ko/loopline/internal/core/network"
	"github.com/minjae-ko/loopline/internal/core/pathfind"
	"github.com/minjae-ko/loopline/internal/core/ports"
	"github.com/minjae-ko/loopline/internal/core/pricing"
	"github.com/minjae-ko/loopline/internal/core/usecases"
	"github.com/minjae-ko/loopline/internal/pkg/config"
	"github.com/minjae-ko/loopline/internal/pkg/logging"
	"github.com/minjae-ko/loopline/internal/pkg/metrics"
	"github.com/minjae-ko/loopline/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("loopline-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Setup("loopline-api", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	// Static network reference data
	net := network.New(catalog.Stations(), catalog.Lines(), catalog.Directions(), catalog.HopDurations())
	engine := pricing.NewEngine(catalog.CouponMap())
	finder := pathfind.New(net, engine)

	// In-memory stores hold the live simulation state.
	itineraries := memory.NewItineraryStore(time.Duration(cfg.Booking.ItineraryTTLMins) * time.Minute)
	bookingRepo := memory.NewBookingRepository()
	walletRepo := memory.NewCouponWalletRepository()

	// Optional booking archive (Postgres)
	var db *postgres.DB
	var archiver ports.BookingArchiver
	if cfg.Database.Enabled {
		db, err = postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		archiver = postgres.NewBookingArchive(db)

		// Pool gauges
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					metrics.UpdateDBPoolMetrics(db.Pool.Stat())
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Optional itinerary cache (Valkey)
	var cache *valkey.Cache
	var cacheSvc ports.CacheService
	if cfg.Valkey.Enabled {
		cache, err = valkey.New(ctx, cfg.Valkey.Addr, cfg.Valkey.Prefix)
		if err != nil {
			slog.Warn("valkey unavailable, search cache disabled", "error", err)
		} else {
			defer cache.Close()
			cacheSvc = cache
		}
	}

	// Optional booking events (NATS JetStream)
	var publisher ports.EventPublisher
	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, booking events disabled", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}

		// Separate plain connection for the WebSocket relay
		nc, err := natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		} else {
			natsConn = nc
		}
	}

	// Optional hold-expiry scheduling (Temporal)
	var holds ports.HoldScheduler
	if cfg.Temporal.Enabled {
		scheduler, err := temporaladapter.New(cfg.Temporal.HostPort, cfg.Temporal.Namespace, cfg.Temporal.TaskQueue)
		if err != nil {
			slog.Warn("temporal unavailable, holds will not auto-expire", "error", err)
		} else {
			defer scheduler.Close()
			holds = scheduler
		}
	}

	// Use cases
	searchSvc := usecases.NewSearchService(finder, itineraries, cacheSvc)
	fareSvc := usecases.NewFareService(engine, itineraries, net.LineMap())
	bookingSvc := usecases.NewBookingService(
		bookingRepo, itineraries, engine, net.LineMap(),
		publisher, archiver, holds,
		cfg.Booking.HoldMinutes, logger,
	)
	couponSvc := usecases.NewCouponService(catalog.Coupons(), catalog.CouponMap(), walletRepo)
	scheduleSvc := usecases.NewScheduleService(net)

	deps := &http.Dependencies{
		Network:   net,
		Search:    searchSvc,
		Fares:     fareSvc,
		Bookings:  bookingSvc,
		Coupons:   couponSvc,
		Schedules: scheduleSvc,
		NATS:      natsConn,
		DB:        db,
		Cache:     cache,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Loopline API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
