package models

import "time"

// Booking event types emitted for collaborators.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the outbound message published after a state transition
// commits. Delivery is best-effort; a publish failure never rolls back state.
type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     string    `json:"bookingId"`
	UserID        string    `json:"userId"`
	VenueID       string    `json:"venueId"`
	Date          string    `json:"date"`
	Start         int       `json:"start"`
	End           int       `json:"end"`
	TotalPrice    int64     `json:"totalPrice,omitempty"`
	RefundAmount  int64     `json:"refundAmount,omitempty"`
	PenaltyAmount int64     `json:"penaltyAmount,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
