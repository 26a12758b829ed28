package models

import "time"

// TimeWindow is a half-open interval [Start, End) in minutes from midnight.
type TimeWindow struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// BookedWindow is a reserved window on a day ledger, tagged with the booking
// that holds it so cancellation can release exactly its own window.
type BookedWindow struct {
	Start     int    `bson:"start" json:"start"`
	End       int    `bson:"end" json:"end"`
	BookingID string `bson:"booking_id" json:"bookingId"`
}

// Window returns the reserved interval.
func (b BookedWindow) Window() TimeWindow {
	return TimeWindow{Start: b.Start, End: b.End}
}

// DayLedger holds every reserved window for one (venue, court, date). It is the
// unit of optimistic concurrency: Version is bumped on every mutation and all
// writes are fenced on the value read in the same transaction.
//
// Ledgers are created lazily on the first booking attempt for a date and are
// never deleted; holidays block their windows instead.
type DayLedger struct {
	ID            string         `bson:"id" json:"id"`
	VenueID       string         `bson:"venue_id" json:"venueId"`
	CourtNumber   int            `bson:"court_number" json:"courtNumber"`
	Date          string         `bson:"date" json:"date"` // "YYYY-MM-DD"
	BookedSlots   []BookedWindow `bson:"booked_slots" json:"bookedSlots"`
	IsHoliday     bool           `bson:"is_holiday" json:"isHoliday"`
	HolidayReason string         `bson:"holiday_reason,omitempty" json:"holidayReason,omitempty"`
	Version       int64          `bson:"version" json:"version"`
	CreatedAt     time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updated_at" json:"updatedAt"`
}
