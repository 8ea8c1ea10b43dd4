package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0"

		// Stations, lines and coupons are static catalog data.
		case strings.HasPrefix(path, "/v1/stations"):
			ttl = "public, max-age=3600"
		case strings.HasPrefix(path, "/v1/lines"):
			if strings.Contains(path, "next-departure") {
				ttl = "public, max-age=30" // timetable answers go stale by the minute
			} else {
				ttl = "public, max-age=3600"
			}
		case path == "/v1/coupons":
			ttl = "public, max-age=3600"

		case strings.HasPrefix(path, "/v1/itineraries/search"):
			ttl = "public, max-age=60" // matches the Valkey search cache TTL

		// Bookings and wallets are per-user mutable state.
		case strings.Contains(path, "/bookings") || strings.Contains(path, "/coupons"):
			ttl = "private, no-store"

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300"
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
