// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"

	"sportzone/database"
	"sportzone/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoTransition is returned when a guarded status update matched no
// document: the booking is missing or not in an accepted source state.
var ErrNoTransition = errors.New("booking not in a state accepting this transition")

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	CreateMany(ctx context.Context, bookings []models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByGroupID(ctx context.Context, groupID string) ([]models.Booking, error)
	ListByPaymentID(ctx context.Context, paymentID string) ([]models.Booking, error)
	// MarkPaid is the convergent payment-success write: it sets
	// paymentStatus=paid and the given status, so re-applying it yields the
	// same document every time. The returned flag is true only for the write
	// that actually flipped the booking from unpaid, letting callers run
	// follow-on side effects exactly once across redeliveries.
	MarkPaid(ctx context.Context, id string, status string) (firstPaid bool, err error)
	// TransitionStatus moves status from one of the accepted source states to
	// the target; ErrNoTransition if the booking is not in any of them.
	TransitionStatus(ctx context.Context, id string, from []string, to string) error
	// MarkCancelled flips a pending or confirmed booking to cancelled;
	// ErrNoTransition if it is missing or already past that point, so racing
	// cancellations settle on exactly one winner.
	MarkCancelled(ctx context.Context, id string, reason string, refunded bool) error
	SetApproval(ctx context.Context, id string, approval string) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{
		coll: database.Collection("bookings"),
	}
}
