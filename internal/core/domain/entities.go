package domain

import (
	"time"
)

// LineType categorizes a bus line.
type LineType string

const (
	LineTypeCity   LineType = "CITY"
	LineTypeSuburb LineType = "SUBURB"
	LineTypeTour   LineType = "TOUR"
)

// LineDirection says which way vehicles run around a line's ring.
type LineDirection string

const (
	// Bidirectional lines are served both ways; the shorter direction wins.
	Bidirectional LineDirection = "BIDIRECTIONAL"
	// Unidirectional lines run in increasing station-index order only,
	// wrapping from the last station back to the first.
	Unidirectional LineDirection = "UNIDIRECTIONAL"
)

// Station is a stop on the network. Immutable reference data.
type Station struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Timetable holds a line's daily departure pattern from its start station.
// FirstDeparture and LastDeparture are local times of day ("HH:MM").
type Timetable struct {
	FirstDeparture  string `json:"first_departure"`
	LastDeparture   string `json:"last_departure"`
	IntervalMinutes int    `json:"interval_minutes"`
}

// Line is a ring bus line: the last station connects back to the first.
// StationIDs is ordered; index 0 is the nominal start of the loop.
type Line struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Type                LineType  `json:"type"`
	StationIDs          []string  `json:"station_ids"`
	Color               string    `json:"color"`
	BaseFare            float64   `json:"base_fare"`
	ExtraFarePerStop    float64   `json:"extra_fare_per_stop"`
	TransferDiscount1st float64   `json:"transfer_discount_1st"`
	TransferDiscount2nd float64   `json:"transfer_discount_2nd"`
	Timetable           Timetable `json:"timetable"`
}

// Leg is one uninterrupted ride on a single line between two stations.
// Discount fields are populated in two passes (transfer, then coupon); each
// pass returns new Leg values rather than mutating in place.
type Leg struct {
	ID               string  `json:"id"`
	LineID           string  `json:"line_id"`
	LineName         string  `json:"line_name"`
	LineColor        string  `json:"line_color"`
	FromStationID    string  `json:"from_station_id"`
	FromIndex        int     `json:"from_index"`
	ToStationID      string  `json:"to_station_id"`
	ToIndex          int     `json:"to_index"`
	DurationMinutes  int     `json:"duration_minutes"`
	StopCount        int     `json:"stop_count"`
	BaseFare         float64 `json:"base_fare"`
	TransferOrdinal  int     `json:"transfer_ordinal"`
	TransferDiscount float64 `json:"transfer_discount"`
	CouponDiscount   float64 `json:"coupon_discount"`
	FinalFare        float64 `json:"final_fare"`
}

// RecommendTag marks why an itinerary was selected.
type RecommendTag string

const (
	TagShortestTime RecommendTag = "SHORTEST_TIME"
	TagMinTransfer  RecommendTag = "MIN_TRANSFER"
	TagLowestFare   RecommendTag = "LOWEST_FARE"
)

// Pricing is the fare breakdown for an itinerary or booking.
type Pricing struct {
	Subtotal          float64 `json:"subtotal"`
	TransferDiscount  float64 `json:"transfer_discount"`
	CouponDiscount    float64 `json:"coupon_discount"`
	TotalDiscount     float64 `json:"total_discount"`
	TotalBeforeCoupon float64 `json:"total_before_coupon"`
	FinalTotal        float64 `json:"final_total"`
}

// Itinerary is a complete trip of one or two legs.
type Itinerary struct {
	ID                   string         `json:"id"`
	Legs                 []Leg          `json:"legs"`
	TotalDurationMinutes int            `json:"total_duration_minutes"`
	TransferCount        int            `json:"transfer_count"`
	Tags                 []RecommendTag `json:"tags"`
	Pricing              Pricing        `json:"pricing"`
}

// CouponType is the discount mechanism of a coupon.
type CouponType string

const (
	CouponFixedAmount CouponType = "FIXED_AMOUNT"
	CouponPercentage  CouponType = "PERCENTAGE"
)

// TimeWindow is an hour-of-day window with inclusive bounds. A window whose
// AfterHour exceeds its BeforeHour wraps midnight.
type TimeWindow struct {
	AfterHour  *int `json:"after_hour,omitempty"`
	BeforeHour *int `json:"before_hour,omitempty"`
}

// Contains reports whether t's local hour falls inside the window.
// An empty window contains every hour.
func (w TimeWindow) Contains(t time.Time) bool {
	hour := t.Hour()
	switch {
	case w.AfterHour == nil && w.BeforeHour == nil:
		return true
	case w.AfterHour != nil && w.BeforeHour != nil:
		if *w.AfterHour <= *w.BeforeHour {
			return hour >= *w.AfterHour && hour <= *w.BeforeHour
		}
		// Wraps midnight, e.g. after 22:00 or before 05:00.
		return hour >= *w.AfterHour || hour <= *w.BeforeHour
	case w.AfterHour != nil:
		return hour >= *w.AfterHour
	default:
		return hour <= *w.BeforeHour
	}
}

// Coupon is a static discount definition. User ownership lives elsewhere.
type Coupon struct {
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        CouponType `json:"type"`
	// Value is an amount for FIXED_AMOUNT coupons and a rate in [0,1] for
	// PERCENTAGE coupons.
	Value      float64     `json:"value"`
	OwnLimit   int         `json:"own_limit"`
	TimeWindow *TimeWindow `json:"time_window,omitempty"`
	LineTypes  []LineType  `json:"line_types,omitempty"`
	// PerLegTimeSensitive coupons check the time window against each leg's
	// own start time instead of the itinerary departure time.
	PerLegTimeSensitive bool `json:"per_leg_time_sensitive"`
}

// AppliesToLineType reports whether the coupon covers the given line type.
// A coupon with no line restriction covers every type.
func (c Coupon) AppliesToLineType(lt LineType) bool {
	if len(c.LineTypes) == 0 {
		return true
	}
	for _, t := range c.LineTypes {
		if t == lt {
			return true
		}
	}
	return false
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingHeld      BookingStatus = "HELD"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking is a held or confirmed purchase of an itinerary with seats.
// The pricing breakdown is frozen at creation time.
type Booking struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	ItineraryID string        `json:"itinerary_id"`
	Legs        []Leg         `json:"legs"`
	Seats       []string      `json:"seats"`
	CouponCode  string        `json:"coupon_code,omitempty"`
	DepartAt    time.Time     `json:"depart_at"`
	Pricing     Pricing       `json:"pricing"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ClaimedCoupon is a coupon held in a user's wallet.
type ClaimedCoupon struct {
	UserID    string    `json:"user_id"`
	Code      string    `json:"code"`
	ClaimedAt time.Time `json:"claimed_at"`
}
