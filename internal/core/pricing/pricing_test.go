package pricing_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
	"github.com/minjae-ko/loopline/internal/core/pricing"
)

func hour(h int) *int { return &h }

var testLines = map[string]domain.Line{
	"red":  {ID: "red", Type: domain.LineTypeCity, TransferDiscount1st: 0.5, TransferDiscount2nd: 0.3},
	"blue": {ID: "blue", Type: domain.LineTypeSuburb, TransferDiscount1st: 0.4, TransferDiscount2nd: 0.2},
	"gold": {ID: "gold", Type: domain.LineTypeTour, TransferDiscount1st: 0.3, TransferDiscount2nd: 0.15},
}

var testCoupons = map[string]domain.Coupon{
	"FLAT300": {
		Code: "FLAT300", Type: domain.CouponFixedAmount, Value: 300,
	},
	"MORNING200": {
		Code: "MORNING200", Type: domain.CouponFixedAmount, Value: 200,
		TimeWindow: &domain.TimeWindow{AfterHour: hour(6), BeforeHour: hour(9)},
	},
	"NIGHT40": {
		Code: "NIGHT40", Type: domain.CouponPercentage, Value: 0.4,
		TimeWindow:          &domain.TimeWindow{AfterHour: hour(22), BeforeHour: hour(5)},
		PerLegTimeSensitive: true,
	},
	"TOURONLY20": {
		Code: "TOURONLY20", Type: domain.CouponPercentage, Value: 0.2,
		LineTypes: []domain.LineType{domain.LineTypeTour},
	},
	"ANY10": {
		Code: "ANY10", Type: domain.CouponPercentage, Value: 0.1,
	},
}

func engine() *pricing.Engine { return pricing.NewEngine(testCoupons) }

func legsFor(fares ...float64) []domain.Leg {
	lineIDs := []string{"red", "blue", "gold"}
	legs := make([]domain.Leg, len(fares))
	for i, f := range fares {
		legs[i] = domain.Leg{
			ID:              string(rune('A' + i)),
			LineID:          lineIDs[i%len(lineIDs)],
			BaseFare:        f,
			DurationMinutes: 30,
		}
	}
	return legs
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func noon() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }

func TestTransferDiscountPass(t *testing.T) {
	legs, err := pricing.LegsWithTransferDiscount(legsFor(1000, 2000, 1500), testLines)
	if err != nil {
		t.Fatal(err)
	}

	// Leg 0 rides full fare.
	if legs[0].TransferOrdinal != 0 || legs[0].TransferDiscount != 0 {
		t.Errorf("leg 0: ordinal=%d discount=%v, want 0/0", legs[0].TransferOrdinal, legs[0].TransferDiscount)
	}
	approx(t, "leg 0 final", legs[0].FinalFare, 1000)

	// Leg 1 gets its own line's first-transfer rate (blue: 0.4).
	approx(t, "leg 1 discount", legs[1].TransferDiscount, 800)
	approx(t, "leg 1 final", legs[1].FinalFare, 1200)

	// Leg 2 gets the second-transfer rate (gold: 0.15).
	if legs[2].TransferOrdinal != 2 {
		t.Errorf("leg 2 ordinal = %d, want 2", legs[2].TransferOrdinal)
	}
	approx(t, "leg 2 discount", legs[2].TransferDiscount, 225)
}

func TestTransferDiscountPassReturnsNewValues(t *testing.T) {
	in := legsFor(1000, 2000)
	out, err := pricing.LegsWithTransferDiscount(in, testLines)
	if err != nil {
		t.Fatal(err)
	}
	if in[1].TransferDiscount != 0 {
		t.Error("input legs must not be mutated by the transfer pass")
	}
	if out[1].TransferDiscount == 0 {
		t.Error("output legs must carry the discount")
	}
}

func TestTransferDiscountUnknownLineFails(t *testing.T) {
	legs := []domain.Leg{{ID: "A", LineID: "ghost", BaseFare: 100}}
	_, err := pricing.LegsWithTransferDiscount(legs, testLines)
	if !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestItineraryPricing(t *testing.T) {
	legs, err := pricing.LegsWithTransferDiscount(legsFor(1000, 2000), testLines)
	if err != nil {
		t.Fatal(err)
	}
	p := pricing.ItineraryPricing(legs)
	approx(t, "subtotal", p.Subtotal, 3000)
	approx(t, "transfer discount", p.TransferDiscount, 800)
	approx(t, "total before coupon", p.TotalBeforeCoupon, 2200)
}

func TestBuildLegStartTimes(t *testing.T) {
	legs := legsFor(100, 100, 100)
	legs[0].DurationMinutes = 20
	legs[1].DurationMinutes = 45
	legs[2].DurationMinutes = 10

	dep := noon()
	starts := pricing.BuildLegStartTimes(legs, dep)
	if len(starts) != 3 {
		t.Fatalf("got %d starts, want 3", len(starts))
	}
	if !starts[0].Equal(dep) {
		t.Errorf("leg 0 starts at %s, want departure time", starts[0])
	}
	if !starts[1].Equal(dep.Add(20 * time.Minute)) {
		t.Errorf("leg 1 starts at %s, want +20m", starts[1])
	}
	if !starts[2].Equal(dep.Add(65 * time.Minute)) {
		t.Errorf("leg 2 starts at %s, want +65m", starts[2])
	}
}

func TestCouponUnknownCodeIsZeroNotError(t *testing.T) {
	legs, _ := pricing.LegsWithTransferDiscount(legsFor(1000), testLines)
	got, err := engine().CouponDiscount(legs, "NOPE", noon(), testLines, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("unknown coupon discount = %v, want 0", got)
	}
}

func TestCouponFixedAmountChargesPerFaredLeg(t *testing.T) {
	legs, _ := pricing.LegsWithTransferDiscount(legsFor(1000, 2000, 0), testLines)
	got, err := engine().CouponDiscount(legs, "FLAT300", noon(), testLines, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Two legs have a positive base fare; the zero-fare leg contributes
	// nothing.
	approx(t, "fixed discount", got, 600)
}

func TestCouponFixedAmountRespectsTimeWindow(t *testing.T) {
	legs, _ := pricing.LegsWithTransferDiscount(legsFor(1000), testLines)
	e := engine()

	got, _ := e.CouponDiscount(legs, "MORNING200", noon(), testLines, nil)
	if got != 0 {
		t.Errorf("noon departure should fail the 06-09 window, got %v", got)
	}

	morning := time.Date(2025, 3, 14, 7, 30, 0, 0, time.UTC)
	got, _ = e.CouponDiscount(legs, "MORNING200", morning, testLines, nil)
	approx(t, "morning discount", got, 200)
}

func TestNightPassGatesEachLegOnItsOwnStartTime(t *testing.T) {
	// Leg 0 starts 21:30 (outside window), leg 1 starts 23:30 (inside).
	legs := legsFor(1000, 1000)
	legs[0].DurationMinutes = 120
	legs[1].DurationMinutes = 30

	priced, err := pricing.LegsWithTransferDiscount(legs, testLines)
	if err != nil {
		t.Fatal(err)
	}

	dep := time.Date(2025, 3, 14, 21, 30, 0, 0, time.UTC)
	starts := pricing.BuildLegStartTimes(priced, dep)

	got, err := engine().CouponDiscount(priced, "NIGHT40", dep, testLines, starts)
	if err != nil {
		t.Fatal(err)
	}
	// Only leg 1 qualifies. Its transfer rate is 0.4 (blue first transfer),
	// equal to the coupon rate, so the excess is zero.
	approx(t, "night discount", got, 0)
}

func TestNightPassPaysOnlyExcessOverTransferRate(t *testing.T) {
	// Single midnight leg: no transfer discount, full coupon rate applies.
	legs := legsFor(1000)
	priced, _ := pricing.LegsWithTransferDiscount(legs, testLines)

	dep := time.Date(2025, 3, 15, 0, 30, 0, 0, time.UTC)
	got, err := engine().CouponDiscount(priced, "NIGHT40", dep, testLines, nil)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "night discount", got, 400)

	// Two night legs: leg 1 rides gold with a 0.3 first-transfer rate, so
	// the coupon tops it up by 0.1, never stacking the full 0.4 on top.
	twoLegs := []domain.Leg{
		{ID: "A", LineID: "red", BaseFare: 1000, DurationMinutes: 10},
		{ID: "B", LineID: "gold", BaseFare: 1000, DurationMinutes: 10},
	}
	priced, _ = pricing.LegsWithTransferDiscount(twoLegs, testLines)
	starts := pricing.BuildLegStartTimes(priced, dep)
	got, err = engine().CouponDiscount(priced, "NIGHT40", dep, testLines, starts)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "two-leg night discount", got, 400+100)
}

func TestLineRestrictedPercentageOnlyCoversMatchingLines(t *testing.T) {
	legs := []domain.Leg{
		{ID: "A", LineID: "red", BaseFare: 1000, DurationMinutes: 10},
		{ID: "B", LineID: "gold", BaseFare: 2000, DurationMinutes: 10},
	}
	priced, _ := pricing.LegsWithTransferDiscount(legs, testLines)

	got, err := engine().CouponDiscount(priced, "TOURONLY20", noon(), testLines, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Only the gold (tour) leg counts, on its post-transfer fare:
	// 2000 - 600 = 1400, 20% of that.
	approx(t, "tour-only discount", got, 280)
}

func TestUnrestrictedPercentageCoversWholeTrip(t *testing.T) {
	legs, _ := pricing.LegsWithTransferDiscount(legsFor(1000, 2000), testLines)
	got, err := engine().CouponDiscount(legs, "ANY10", noon(), testLines, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Final fares: 1000 + 1200.
	approx(t, "any10 discount", got, 220)
}

func TestCouponPassWritesPerLegDiscounts(t *testing.T) {
	// Single full-fare leg with the unrestricted 10% coupon: the leg itself
	// must carry the discount, not just the trip breakdown.
	p, priced, err := engine().FinalBookingPrice(legsFor(1000), "ANY10", noon(), testLines)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "coupon", p.CouponDiscount, 100)
	approx(t, "leg 0 coupon", priced[0].CouponDiscount, 100)
	approx(t, "leg 0 final", priced[0].FinalFare, 900)
	approx(t, "final total", p.FinalTotal, 900)
}

func TestPerLegCouponDiscountsSumToBreakdown(t *testing.T) {
	cases := []struct {
		code string
		dep  time.Time
	}{
		{"FLAT300", noon()},
		{"TOURONLY20", noon()},
		{"ANY10", noon()},
		{"NIGHT40", time.Date(2025, 3, 15, 0, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		p, priced, err := engine().FinalBookingPrice(legsFor(1000, 2000, 1500), tc.code, tc.dep, testLines)
		if err != nil {
			t.Fatalf("%s: %v", tc.code, err)
		}
		sum := 0.0
		for _, leg := range priced {
			sum += leg.CouponDiscount
			approx(t, tc.code+" leg final", leg.FinalFare,
				max(0, leg.BaseFare-leg.TransferDiscount-leg.CouponDiscount))
		}
		approx(t, tc.code+" leg sum", sum, p.CouponDiscount)
	}
}

func TestLineRestrictedCouponAttributesOnlyMatchingLegs(t *testing.T) {
	legs := []domain.Leg{
		{ID: "A", LineID: "red", BaseFare: 1000, DurationMinutes: 10},
		{ID: "B", LineID: "gold", BaseFare: 2000, DurationMinutes: 10},
	}
	p, priced, err := engine().FinalBookingPrice(legs, "TOURONLY20", noon(), testLines)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "red leg coupon", priced[0].CouponDiscount, 0)
	approx(t, "gold leg coupon", priced[1].CouponDiscount, 280)
	approx(t, "breakdown coupon", p.CouponDiscount, 280)
}

func TestCouponPassClampsLegFinalFare(t *testing.T) {
	// A flat coupon bigger than the leg's fare: the leg keeps the raw
	// attribution but its final fare floors at zero.
	_, priced, err := engine().FinalBookingPrice(legsFor(100), "FLAT300", noon(), testLines)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "leg coupon", priced[0].CouponDiscount, 300)
	approx(t, "leg final", priced[0].FinalFare, 0)
}

func TestFinalBookingPrice(t *testing.T) {
	p, priced, err := engine().FinalBookingPrice(legsFor(1000, 2000), "FLAT300", noon(), testLines)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "subtotal", p.Subtotal, 3000)
	approx(t, "transfer", p.TransferDiscount, 800)
	approx(t, "coupon", p.CouponDiscount, 600)
	approx(t, "total discount", p.TotalDiscount, 1400)
	approx(t, "final total", p.FinalTotal, 1600)
	if len(priced) != 2 {
		t.Fatalf("expected 2 priced legs, got %d", len(priced))
	}
}

func TestFinalBookingPriceWithoutCoupon(t *testing.T) {
	p, _, err := engine().FinalBookingPrice(legsFor(1000, 2000), "", noon(), testLines)
	if err != nil {
		t.Fatal(err)
	}
	if p.CouponDiscount != 0 {
		t.Errorf("coupon discount = %v, want 0", p.CouponDiscount)
	}
	approx(t, "final total", p.FinalTotal, p.Subtotal-p.TransferDiscount)
}

func TestFinalBookingPriceClampsAtZero(t *testing.T) {
	// A flat coupon bigger than the fare must not drive the total negative.
	p, _, err := engine().FinalBookingPrice(legsFor(100), "FLAT300", noon(), testLines)
	if err != nil {
		t.Fatal(err)
	}
	if p.FinalTotal != 0 {
		t.Errorf("final total = %v, want clamp to 0", p.FinalTotal)
	}
}
