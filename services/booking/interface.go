package booking

import (
	"context"
	"time"

	bookingRepo "sportzone/database/repository/booking"
	ledgerRepo "sportzone/database/repository/ledger"
	paymentRepo "sportzone/database/repository/payment"
	userRepo "sportzone/database/repository/user"
	venueRepo "sportzone/database/repository/venue"
	walletRepo "sportzone/database/repository/wallet"
	"sportzone/database"
	"sportzone/models"

	"go.uber.org/zap"
)

// PaymentGateway initiates a checkout session for an online payment. The wire
// protocol (payload shapes, signatures) is the gateway adapter's concern.
type PaymentGateway interface {
	InitiateCheckout(ctx context.Context, payment *models.Payment) (checkoutURL, gatewayRef string, err error)
}

// EventPublisher pushes booking events to collaborators. Fire-and-forget:
// publish failures are logged and never roll back state.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.BookingEvent) error
}

// CreateBookingRequest describes one reservation attempt. UserID is empty for
// guests, in which case Guest contact info (email required) must be supplied.
type CreateBookingRequest struct {
	UserID        string
	Guest         *models.GuestContact
	VenueID       string
	CourtNumber   int
	Date          string // "YYYY-MM-DD"
	Start         int    // minutes from midnight
	End           int
	PaymentMethod string
	Note          string
}

// BookingResult is a successful reservation plus, for online payments, the
// checkout URL the customer must visit.
type BookingResult struct {
	Booking     *models.Booking `json:"booking"`
	CheckoutURL string          `json:"checkoutUrl,omitempty"`
}

// RecurringBookingRequest books the same window on several dates as one
// all-or-nothing batch sharing a single payment.
type RecurringBookingRequest struct {
	UserID        string
	Guest         *models.GuestContact
	VenueID       string
	CourtNumber   int
	Dates         []string // explicit date set; or use StartDate+Days
	StartDate     string
	Days          int
	Start         int
	End           int
	PaymentMethod string
	Note          string
}

// RecurringBookingResult is the committed batch.
type RecurringBookingResult struct {
	Bookings    []models.Booking `json:"bookings"`
	Payment     *models.Payment  `json:"payment"`
	CheckoutURL string           `json:"checkoutUrl,omitempty"`
}

// SlotAvailability is one candidate slot with its availability flag.
type SlotAvailability struct {
	Start     int   `json:"start"`
	End       int   `json:"end"`
	Price     int64 `json:"price"`
	Available bool  `json:"available"`
}

// DayAvailability is the per-day view exposed to collaborators.
type DayAvailability struct {
	Date      string             `json:"date"`
	IsHoliday bool               `json:"isHoliday"`
	Slots     []SlotAvailability `json:"slots"`
}

// ReservationEngine orchestrates slot allocation, the multi-entity
// transactional write, and the booking lifecycle transitions.
type ReservationEngine interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error)
	CreateRecurringBooking(ctx context.Context, req RecurringBookingRequest) (*RecurringBookingResult, error)
	GetAvailability(ctx context.Context, venueID string, court int, from, to time.Time) ([]DayAvailability, error)
	CheckIn(ctx context.Context, bookingID string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID string) (*models.Booking, error)
	Approve(ctx context.Context, bookingID string) (*models.Booking, error)
	Reject(ctx context.Context, bookingID string) (*models.Booking, error)
	MarkHoliday(ctx context.Context, venueID string, date, reason string) error
}

// DefaultReservationEngine is the production implementation.
type DefaultReservationEngine struct {
	Venues     venueRepo.VenueRepository
	Ledger     ledgerRepo.LedgerRepository
	Bookings   bookingRepo.BookingRepository
	Payments   paymentRepo.PaymentRepository
	Users      userRepo.UserRepository
	Wallets    walletRepo.WalletRepository
	Tx         database.TxRunner
	Gateway    PaymentGateway
	Events     EventPublisher
	FeeRate    float64
	RetryLimit int
	Logger     *zap.Logger
}
