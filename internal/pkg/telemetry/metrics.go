package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricSearchesServed  = "business.itinerary_searches"
	MetricBookingsHeld    = "business.bookings_held"
	MetricHoldsExpired    = "business.holds_expired"
	MetricCouponsRedeemed = "business.coupons_redeemed"
)
