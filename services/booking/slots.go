package booking

import (
	"math"
	"time"

	"sportzone/models"
)

// CandidateSlot is one bookable window derived from the venue configuration,
// priced server-side. Start and End are minutes from midnight.
type CandidateSlot struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Price int64 `json:"price"`
}

// BuildDaySlots derives the ordered set of candidate windows for a venue on a
// date: each operating window is stepped by the slot duration and each slot is
// priced by the highest-priority matching price rule. Pure and deterministic;
// it knows nothing about existing reservations, so it serves both availability
// display and the canonical pricing source at booking time.
func BuildDaySlots(venue *models.Venue, date time.Time) []CandidateSlot {
	if venue.SlotDuration <= 0 {
		return nil
	}
	weekday := date.Weekday()

	var slots []CandidateSlot
	for _, window := range venue.HoursFor(weekday) {
		for start := window.Start; start+venue.SlotDuration <= window.End; start += venue.SlotDuration {
			end := start + venue.SlotDuration
			slots = append(slots, CandidateSlot{
				Start: start,
				End:   end,
				Price: SlotPrice(venue, weekday, models.TimeWindow{Start: start, End: end}),
			})
		}
	}
	return slots
}

// SlotPrice prices a single slot: base price times the highest-priority rule
// whose window fully contains the slot. The fallback multiplier is 1.
func SlotPrice(venue *models.Venue, weekday time.Weekday, slot models.TimeWindow) int64 {
	multiplier := 1.0
	bestPriority := math.MinInt

	for _, rule := range venue.PriceRules {
		if rule.Weekday != weekday {
			continue
		}
		if slot.Start < rule.Start || slot.End > rule.End {
			continue
		}
		if rule.Priority > bestPriority {
			bestPriority = rule.Priority
			multiplier = rule.Multiplier
		}
	}
	return int64(math.Round(float64(venue.BasePrice) * multiplier))
}
