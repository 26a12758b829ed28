package models

import "time"

// Payment method classes.
const (
	PaymentMethodCard = "card" // online, settles through the gateway
	PaymentMethodCash = "cash" // offline, settled at the venue
)

// Payment record status.
const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
)

// Payment is the money-side record for one or more bookings (a recurring batch
// shares a single payment). Created in the same transaction as its bookings.
type Payment struct {
	ID          string    `bson:"id" json:"id"`
	BookingIDs  []string  `bson:"booking_ids" json:"bookingIds"`
	UserID      string    `bson:"user_id" json:"userId"`
	Amount      int64     `bson:"amount" json:"amount"`
	Currency    string    `bson:"currency" json:"currency"`
	Method      string    `bson:"method" json:"method"`
	Status      string    `bson:"status" json:"status"`
	GatewayRef  string    `bson:"gateway_ref,omitempty" json:"gatewayRef,omitempty"`
	CheckoutURL string    `bson:"checkout_url,omitempty" json:"checkoutUrl,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// PaymentSucceededEvent is the normalized success callback from the gateway.
// Delivery is at-least-once and may be duplicated or arrive out of order.
type PaymentSucceededEvent struct {
	PaymentID string `json:"paymentId"`
	BookingID string `json:"bookingId"`
	Amount    int64  `json:"amount"`
}

// PaymentFailedEvent is the normalized failure callback from the gateway.
type PaymentFailedEvent struct {
	PaymentID string `json:"paymentId"`
	BookingID string `json:"bookingId"`
	Reason    string `json:"reason"`
}
