package models

import "time"

// Booking lifecycle status.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCheckedIn = "checked_in"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Payment status carried on the booking itself.
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Approval status for bookings that need a human review step (free-text note,
// or a venue that requires owner sign-off).
const (
	ApprovalStatusNone     = "none"
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// Booking is the customer-facing reservation record. It is created inside the
// same transaction as the ledger append and only ever mutated through the
// payment event handler, the approval transitions, or the cancellation flow.
type Booking struct {
	ID                 string    `bson:"id" json:"id"`
	UserID             string    `bson:"user_id" json:"userId"`
	VenueID            string    `bson:"venue_id" json:"venueId"`
	CourtNumber        int       `bson:"court_number" json:"courtNumber"`
	Date               string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Start              int       `bson:"start" json:"start"`
	End                int       `bson:"end" json:"end"`
	Status             string    `bson:"status" json:"status"`
	PaymentStatus      string    `bson:"payment_status" json:"paymentStatus"`
	ApprovalStatus     string    `bson:"approval_status" json:"approvalStatus"`
	Note               string    `bson:"note,omitempty" json:"note,omitempty"`
	BookingAmount      int64     `bson:"booking_amount" json:"bookingAmount"`
	PlatformFee        int64     `bson:"platform_fee" json:"platformFee"`
	TotalPrice         int64     `bson:"total_price" json:"totalPrice"`
	PaymentID          string    `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	GroupID            string    `bson:"group_id,omitempty" json:"groupId,omitempty"` // shared by a recurring batch
	CancellationReason string    `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CreatedAt          time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updatedAt"`
}

// StartTime resolves the booking's absolute start instant.
func (b *Booking) StartTime() (time.Time, error) {
	day, err := time.Parse("2006-01-02", b.Date)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(b.Start) * time.Minute), nil
}

// Cancellable reports whether the booking is still in a state the
// cancellation flow accepts.
func (b *Booking) Cancellable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
