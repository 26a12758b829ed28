package booking

import (
	"context"
	"fmt"
	"time"

	"sportzone/models"
)

// GetAvailability merges the pure day-slot derivation with the ledger's booked
// windows for every day in the range. Holidays return the day flagged with no
// bookable slots.
func (e *DefaultReservationEngine) GetAvailability(ctx context.Context, venueID string, court int, from, to time.Time) ([]DayAvailability, error) {
	venue, err := e.Venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("fetch venue: %w", err)
	}
	if venue == nil {
		return nil, NewNotFoundError("venue %s not found", venueID)
	}
	if court < 1 || court > venue.CourtCount {
		return nil, NewValidationError("court %d does not exist at this venue", court)
	}
	if to.Before(from) {
		return nil, NewValidationError("date range end is before start")
	}

	entries, err := e.Ledger.GetRange(ctx, venueID, court, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]*models.DayLedger, len(entries))
	for i := range entries {
		byDate[entries[i].Date] = &entries[i]
	}

	var days []DayAvailability
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		entry := byDate[date]

		day := DayAvailability{Date: date}
		if entry != nil && entry.IsHoliday {
			day.IsHoliday = true
			days = append(days, day)
			continue
		}

		for _, candidate := range BuildDaySlots(venue, d) {
			slot := SlotAvailability{
				Start:     candidate.Start,
				End:       candidate.End,
				Price:     candidate.Price,
				Available: true,
			}
			if entry != nil && HasConflict(models.TimeWindow{Start: slot.Start, End: slot.End}, entry.BookedSlots) {
				slot.Available = false
			}
			day.Slots = append(day.Slots, slot)
		}
		days = append(days, day)
	}
	return days, nil
}

// MarkHoliday blocks every court of the venue for the date. Existing ledgers
// are kept; new booking attempts fail with a holiday error.
func (e *DefaultReservationEngine) MarkHoliday(ctx context.Context, venueID string, date, reason string) error {
	venue, err := e.Venues.GetByID(ctx, venueID)
	if err != nil {
		return fmt.Errorf("fetch venue: %w", err)
	}
	if venue == nil {
		return NewNotFoundError("venue %s not found", venueID)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return NewValidationError("invalid date %q", date)
	}
	for court := 1; court <= venue.CourtCount; court++ {
		if err := e.Ledger.SetHoliday(ctx, venueID, court, date, reason); err != nil {
			return err
		}
	}
	return nil
}
