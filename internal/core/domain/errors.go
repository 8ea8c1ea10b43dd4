package domain

import "errors"

// Data-integrity errors. These indicate inconsistent static reference data
// (an authoring bug, not bad user input) and are fatal for the request.
var (
	// ErrStationNotOnLine is returned when a station id is not part of the
	// line it was looked up against.
	ErrStationNotOnLine = errors.New("station not found on line")

	// ErrLineNotFound is returned when a leg references a line id absent
	// from the supplied line map.
	ErrLineNotFound = errors.New("line not found")
)

// Expected not-found outcomes at the storage boundary.
var (
	ErrItineraryNotFound = errors.New("itinerary not found")
	ErrBookingNotFound   = errors.New("booking not found")
)

// ErrCouponNotFound is returned when a coupon code does not exist in the
// catalog.
var ErrCouponNotFound = errors.New("coupon not found")

// Booking conflicts.
var (
	// ErrInvalidBookingState is returned when a lifecycle transition is
	// requested on a booking whose status does not allow it.
	ErrInvalidBookingState = errors.New("invalid booking state for this operation")

	// ErrSeatTaken is returned when a requested seat is already booked on
	// one of the itinerary's legs at the same departure.
	ErrSeatTaken = errors.New("seat already taken")

	// ErrCouponLimitReached is returned when a user claims a coupon past
	// its ownership cap.
	ErrCouponLimitReached = errors.New("coupon ownership limit reached")
)
