package catalog

import "github.com/minjae-ko/loopline/internal/core/domain"

func hour(h int) *int { return &h }

// coupons is the static coupon catalog. Claim state lives in the wallet
// store, not here.
var coupons = []domain.Coupon{
	{
		Code:        "WELCOME1000",
		Name:        "Welcome Pass",
		Description: "1,000 off every ride leg on your first trips.",
		Type:        domain.CouponFixedAmount,
		Value:       1000,
		OwnLimit:    1,
	},
	{
		Code:        "EARLYBIRD500",
		Name:        "Early Bird",
		Description: "500 off per leg when departing between 05:00 and 09:00.",
		Type:        domain.CouponFixedAmount,
		Value:       500,
		OwnLimit:    5,
		TimeWindow:  &domain.TimeWindow{AfterHour: hour(5), BeforeHour: hour(9)},
	},
	{
		Code:        "NIGHTOWL30",
		Name:        "Night Owl Pass",
		Description: "30% off legs that start between 22:00 and 05:00.",
		Type:        domain.CouponPercentage,
		Value:       0.30,
		OwnLimit:    3,
		TimeWindow:  &domain.TimeWindow{AfterHour: hour(22), BeforeHour: hour(5)},
		// Checked per leg: a trip that crosses into the night window only
		// discounts the legs that actually start inside it.
		PerLegTimeSensitive: true,
	},
	{
		Code:        "TOURLOVER15",
		Name:        "Tour Lover",
		Description: "15% off tour line legs.",
		Type:        domain.CouponPercentage,
		Value:       0.15,
		OwnLimit:    2,
		LineTypes:   []domain.LineType{domain.LineTypeTour},
	},
	{
		Code:        "ALLRIDE10",
		Name:        "All-Ride 10",
		Description: "10% off your whole trip.",
		Type:        domain.CouponPercentage,
		Value:       0.10,
		OwnLimit:    1,
	},
}

var couponByCode = func() map[string]domain.Coupon {
	m := make(map[string]domain.Coupon, len(coupons))
	for _, c := range coupons {
		m[c.Code] = c
	}
	return m
}()

// Coupons returns the coupon catalog.
func Coupons() []domain.Coupon {
	return coupons
}

// CouponByCode looks up a coupon definition.
func CouponByCode(code string) (domain.Coupon, bool) {
	c, ok := couponByCode[code]
	return c, ok
}

// CouponMap returns the catalog keyed by code for the pricing engine.
func CouponMap() map[string]domain.Coupon {
	return couponByCode
}
