package models

import "time"

// OperatingWindow describes when a venue is open on a given weekday.
// Start and End are minutes from midnight (e.g., 480 for 8:00 AM).
type OperatingWindow struct {
	Weekday time.Weekday `bson:"weekday" json:"weekday"`
	Start   int          `bson:"start" json:"start"`
	End     int          `bson:"end" json:"end"`
}

// PriceRule applies a multiplier to slots that fall inside its window.
// Higher Priority wins when several rules match; the fallback multiplier is 1.
type PriceRule struct {
	Weekday    time.Weekday `bson:"weekday" json:"weekday"`
	Start      int          `bson:"start" json:"start"`
	End        int          `bson:"end" json:"end"`
	Multiplier float64      `bson:"multiplier" json:"multiplier"`
	Priority   int          `bson:"priority" json:"priority"`
}

// Venue is the bookable resource configuration. It is owned and mutated by the
// catalog service; the reservation core only reads it.
type Venue struct {
	ID                    string            `bson:"id" json:"id"`
	OwnerID               string            `bson:"owner_id" json:"ownerId"`
	Name                  string            `bson:"name" json:"name"`
	CourtCount            int               `bson:"court_count" json:"courtCount"`
	SlotDuration          int               `bson:"slot_duration" json:"slotDuration"` // minutes per slot
	MinSlots              int               `bson:"min_slots" json:"minSlots"`
	MaxSlots              int               `bson:"max_slots" json:"maxSlots"`
	BasePrice             int64             `bson:"base_price" json:"basePrice"` // per slot, integer currency units
	Currency              string            `bson:"currency" json:"currency"`
	OperatingHours        []OperatingWindow `bson:"operating_hours" json:"operatingHours"`
	PriceRules            []PriceRule       `bson:"price_rules,omitempty" json:"priceRules,omitempty"`
	Active                bool              `bson:"active" json:"active"`
	RequiresOwnerApproval bool              `bson:"requires_owner_approval" json:"requiresOwnerApproval"`
	CreatedAt             time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt             time.Time         `bson:"updated_at" json:"updatedAt"`
}

// HoursFor returns the operating windows for the given weekday.
func (v *Venue) HoursFor(day time.Weekday) []OperatingWindow {
	var out []OperatingWindow
	for _, w := range v.OperatingHours {
		if w.Weekday == day {
			out = append(out, w)
		}
	}
	return out
}
