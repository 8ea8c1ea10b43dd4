package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/minjae-ko/loopline/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// API docs
	SetupDocs(app)

	// Health & readiness, no timeout wrapper; these are fast internal checks
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 with a 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Get("/stations", timeout.NewWithContext(ListStationsHandler(deps), 15*time.Second))
	v1.Get("/stations/:id", timeout.NewWithContext(GetStationHandler(deps), 15*time.Second))
	v1.Get("/stations/:id/lines", timeout.NewWithContext(StationLinesHandler(deps), 15*time.Second))
	v1.Get("/lines", timeout.NewWithContext(ListLinesHandler(deps), 15*time.Second))
	v1.Get("/lines/:id", timeout.NewWithContext(GetLineHandler(deps), 15*time.Second))
	v1.Get("/lines/:id/stations", timeout.NewWithContext(LineStationsHandler(deps), 15*time.Second))
	v1.Get("/lines/:id/next-departure", timeout.NewWithContext(NextDepartureHandler(deps), 15*time.Second))

	// Itinerary search and retrieval
	v1.Get("/itineraries/search", timeout.NewWithContext(SearchItinerariesHandler(deps), 15*time.Second))
	v1.Get("/itineraries/:id", timeout.NewWithContext(GetItineraryHandler(deps), 15*time.Second))

	// Fare quotes
	v1.Post("/fares/preview", timeout.NewWithContext(FarePreviewHandler(deps), 15*time.Second))

	// Coupon catalog and wallets
	v1.Get("/coupons", timeout.NewWithContext(ListCouponsHandler(deps), 15*time.Second))
	v1.Post("/coupons/claim", timeout.NewWithContext(ClaimCouponHandler(deps), 15*time.Second))
	v1.Get("/users/:id/coupons", timeout.NewWithContext(UserCouponsHandler(deps), 15*time.Second))

	// Booking lifecycle
	v1.Post("/bookings", timeout.NewWithContext(CreateBookingHandler(deps), 15*time.Second))
	v1.Get("/bookings/:id", timeout.NewWithContext(GetBookingHandler(deps), 15*time.Second))
	v1.Post("/bookings/:id/confirm", timeout.NewWithContext(ConfirmBookingHandler(deps), 15*time.Second))
	v1.Delete("/bookings/:id", timeout.NewWithContext(CancelBookingHandler(deps), 15*time.Second))
	v1.Get("/users/:id/bookings", timeout.NewWithContext(UserBookingsHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// WebSocket relay for booking events, only when NATS is wired
	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
