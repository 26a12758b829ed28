package booking

import (
	"math"
	"sort"
	"time"

	"sportzone/models"
)

// DiscountTier applies a discount rate from a booked-day ordinal onward
// (1-based). Tiers must be ordered by FromDay ascending.
type DiscountTier struct {
	FromDay int
	Rate    float64
}

// DefaultDiscountTiers: first two days full price, days 3-4 at 10% off,
// day 5 onward at 20% off.
var DefaultDiscountTiers = []DiscountTier{
	{FromDay: 1, Rate: 0},
	{FromDay: 3, Rate: 0.10},
	{FromDay: 5, Rate: 0.20},
}

// QuoteWindow re-derives the price of a requested window from the venue
// configuration. Client-submitted totals are never trusted; this is the only
// pricing source the engine stores. The window must be exactly covered by
// consecutive candidate slots, which also proves it is aligned to slot
// boundaries and inside operating hours.
func QuoteWindow(venue *models.Venue, date time.Time, w models.TimeWindow) (int64, error) {
	if w.End <= w.Start {
		return 0, NewValidationError("booking window end must be after start")
	}
	slots := BuildDaySlots(venue, date)

	var amount int64
	cursor := w.Start
	for _, slot := range slots {
		if slot.Start != cursor {
			continue
		}
		if slot.End > w.End {
			break
		}
		amount += slot.Price
		cursor = slot.End
		if cursor == w.End {
			return amount, nil
		}
	}
	return 0, NewValidationError("window [%d, %d) is not aligned to bookable slots on %s",
		w.Start, w.End, date.Format("2006-01-02"))
}

// PlatformFee computes the non-refundable platform fee on a booking amount.
func PlatformFee(amount int64, rate float64) int64 {
	if rate <= 0 {
		return 0
	}
	return int64(math.Round(float64(amount) * rate))
}

// ApplyBulkDiscount discounts a multi-day batch by booked-day ordinal: the
// per-day prices are ranked descending (most expensive days keep full price)
// and each ordinal takes the rate of the deepest tier it has reached. The
// returned slice is aligned with the input order.
func ApplyBulkDiscount(dayPrices []int64, tiers []DiscountTier) []int64 {
	if len(tiers) == 0 {
		out := make([]int64, len(dayPrices))
		copy(out, dayPrices)
		return out
	}

	order := make([]int, len(dayPrices))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dayPrices[order[a]] > dayPrices[order[b]]
	})

	out := make([]int64, len(dayPrices))
	for ordinal, idx := range order {
		rate := 0.0
		for _, tier := range tiers {
			if ordinal+1 >= tier.FromDay {
				rate = tier.Rate
			}
		}
		out[idx] = int64(math.Round(float64(dayPrices[idx]) * (1 - rate)))
	}
	return out
}
