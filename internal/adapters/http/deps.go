package http

import (
	"github.com/nats-io/nats.go"

	"github.com/minjae-ko/loopline/internal/adapters/postgres"
	"github.com/minjae-ko/loopline/internal/adapters/valkey"
	"github.com/minjae-ko/loopline/internal/core/network"
	"github.com/minjae-ko/loopline/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Network   *network.Network
	Search    *usecases.SearchService
	Fares     *usecases.FareService
	Bookings  *usecases.BookingService
	Coupons   *usecases.CouponService
	Schedules *usecases.ScheduleService
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
}
