package pricing

import (
	"fmt"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
)

// Engine computes fares. It layers per-leg transfer discounts first, then a
// coupon discount on top, with the rule that a percentage coupon only ever
// contributes the excess over a leg's transfer discount. All inputs are
// static reference data plus request parameters; every method is a pure
// function and safe for concurrent use.
type Engine struct {
	coupons map[string]domain.Coupon
}

// NewEngine builds an engine over a coupon catalog keyed by code.
func NewEngine(coupons map[string]domain.Coupon) *Engine {
	return &Engine{coupons: coupons}
}

// LegsWithTransferDiscount returns a new leg slice with transfer ordinals
// and transfer discounts populated. The first leg rides full fare; the
// second leg gets its line's first-transfer rate; later legs get the
// second-transfer rate. A leg referencing an unknown line id is a
// data-consistency bug and fails hard.
func LegsWithTransferDiscount(legs []domain.Leg, lineMap map[string]domain.Line) ([]domain.Leg, error) {
	out := make([]domain.Leg, len(legs))
	for i, leg := range legs {
		line, ok := lineMap[leg.LineID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrLineNotFound, leg.LineID)
		}

		rate := 0.0
		switch {
		case i == 1:
			rate = line.TransferDiscount1st
		case i >= 2:
			rate = line.TransferDiscount2nd
		}

		leg.TransferOrdinal = i
		leg.TransferDiscount = leg.BaseFare * rate
		leg.CouponDiscount = 0
		leg.FinalFare = leg.BaseFare - leg.TransferDiscount
		out[i] = leg
	}
	return out, nil
}

// ItineraryPricing aggregates leg fares into a pre-coupon breakdown.
func ItineraryPricing(legs []domain.Leg) domain.Pricing {
	var p domain.Pricing
	for _, leg := range legs {
		p.Subtotal += leg.BaseFare
		p.TransferDiscount += leg.TransferDiscount
	}
	p.TotalBeforeCoupon = p.Subtotal - p.TransferDiscount
	return p
}

// BuildLegStartTimes rolls a running clock over the legs: leg 0 starts at
// departAt, each later leg starts when the previous leg's ride ends.
// Transfer dwell time is not part of the pricing clock.
func BuildLegStartTimes(legs []domain.Leg, departAt time.Time) []time.Time {
	starts := make([]time.Time, len(legs))
	clock := departAt
	for i, leg := range legs {
		starts[i] = clock
		clock = clock.Add(time.Duration(leg.DurationMinutes) * time.Minute)
	}
	return starts
}

// legCouponDiscounts resolves a coupon code and returns each leg's share of
// the discount, indexed like legs. An unknown or empty code contributes
// zeros: the trip proceeds without a coupon, it is not an error.
//
// legStartTimes may be nil, in which case per-leg time checks fall back to
// the overall departure time.
func (e *Engine) legCouponDiscounts(legs []domain.Leg, couponCode string, departAt time.Time, lineMap map[string]domain.Line, legStartTimes []time.Time) ([]float64, error) {
	amounts := make([]float64, len(legs))
	coupon, ok := e.coupons[couponCode]
	if !ok {
		return amounts, nil
	}

	if coupon.PerLegTimeSensitive && coupon.Type == domain.CouponPercentage {
		perLegTimeSensitiveDiscount(amounts, legs, coupon, departAt, legStartTimes)
		return amounts, nil
	}

	switch {
	case coupon.Type == domain.CouponFixedAmount:
		if coupon.TimeWindow != nil && !coupon.TimeWindow.Contains(departAt) {
			return amounts, nil
		}
		for i, leg := range legs {
			if leg.BaseFare > 0 {
				amounts[i] = coupon.Value
			}
		}

	case len(coupon.LineTypes) > 0:
		// Line-restricted percentage coupons carry no time window in the
		// catalog, so this branch does not gate on departure time.
		for i, leg := range legs {
			line, ok := lineMap[leg.LineID]
			if !ok {
				return nil, fmt.Errorf("%w: %q", domain.ErrLineNotFound, leg.LineID)
			}
			if coupon.AppliesToLineType(line.Type) {
				amounts[i] = leg.FinalFare * coupon.Value
			}
		}

	default:
		if coupon.TimeWindow != nil && !coupon.TimeWindow.Contains(departAt) {
			return amounts, nil
		}
		for i, leg := range legs {
			amounts[i] = leg.FinalFare * coupon.Value
		}
	}
	return amounts, nil
}

// CouponDiscount returns the total discount a coupon contributes for the
// given legs; see legCouponDiscounts for the per-leg rules.
func (e *Engine) CouponDiscount(legs []domain.Leg, couponCode string, departAt time.Time, lineMap map[string]domain.Line, legStartTimes []time.Time) (float64, error) {
	amounts, err := e.legCouponDiscounts(legs, couponCode, departAt, lineMap, legStartTimes)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, a := range amounts {
		total += a
	}
	return total, nil
}

// LegsWithCouponDiscount runs the coupon pass over transfer-priced legs: it
// returns a new slice with each leg's CouponDiscount populated and its
// FinalFare recomputed as BaseFare - TransferDiscount - CouponDiscount,
// clamped at zero. CouponDiscount keeps the raw attribution even when the
// clamp bites, so the per-leg amounts always sum to the trip's coupon
// discount.
func (e *Engine) LegsWithCouponDiscount(legs []domain.Leg, couponCode string, departAt time.Time, lineMap map[string]domain.Line, legStartTimes []time.Time) ([]domain.Leg, error) {
	amounts, err := e.legCouponDiscounts(legs, couponCode, departAt, lineMap, legStartTimes)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Leg, len(legs))
	for i, leg := range legs {
		leg.CouponDiscount = amounts[i]
		leg.FinalFare = leg.BaseFare - leg.TransferDiscount - leg.CouponDiscount
		if leg.FinalFare < 0 {
			leg.FinalFare = 0
		}
		out[i] = leg
	}
	return out, nil
}

// perLegTimeSensitiveDiscount applies a night-pass style coupon: each leg is
// gated on its own start time, and the coupon only adds the excess of its
// rate over the leg's transfer discount rate, so a leg is never discounted
// twice for the same minutes.
func perLegTimeSensitiveDiscount(amounts []float64, legs []domain.Leg, coupon domain.Coupon, departAt time.Time, legStartTimes []time.Time) {
	for i, leg := range legs {
		start := departAt
		if i < len(legStartTimes) {
			start = legStartTimes[i]
		}
		if coupon.TimeWindow != nil && !coupon.TimeWindow.Contains(start) {
			continue
		}

		transferRate := 0.0
		if leg.BaseFare > 0 {
			transferRate = leg.TransferDiscount / leg.BaseFare
		}
		if extra := coupon.Value - transferRate; extra > 0 {
			amounts[i] = leg.BaseFare * extra
		}
	}
}

// FinalBookingPrice runs the full pipeline: transfer pass, leg start times,
// coupon pass, and the final clamp. It returns the frozen breakdown plus the
// fully priced legs, whose per-leg discounts sum to the breakdown's. An
// empty coupon code prices the trip without one.
func (e *Engine) FinalBookingPrice(legs []domain.Leg, couponCode string, departAt time.Time, lineMap map[string]domain.Line) (domain.Pricing, []domain.Leg, error) {
	priced, err := LegsWithTransferDiscount(legs, lineMap)
	if err != nil {
		return domain.Pricing{}, nil, err
	}

	p := ItineraryPricing(priced)

	starts := BuildLegStartTimes(priced, departAt)
	priced, err = e.LegsWithCouponDiscount(priced, couponCode, departAt, lineMap, starts)
	if err != nil {
		return domain.Pricing{}, nil, err
	}

	for _, leg := range priced {
		p.CouponDiscount += leg.CouponDiscount
	}
	p.TotalDiscount = p.TransferDiscount + p.CouponDiscount
	p.FinalTotal = p.Subtotal - p.TotalDiscount
	if p.FinalTotal < 0 {
		p.FinalTotal = 0
	}
	return p, priced, nil
}
