// File: database/repository/payment/interface.go
package paymentRepo

import (
	"context"
	"errors"

	"sportzone/database"
	"sportzone/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoTransition is returned when a guarded status update matched no
// document: the payment is missing or not in an accepted source state.
var ErrNoTransition = errors.New("payment not in a state accepting this transition")

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	// SetStatus is unconditional by id so duplicate gateway events converge.
	SetStatus(ctx context.Context, id string, status string) error
	// TransitionStatus moves status from one of the accepted source states to
	// the target; ErrNoTransition if the payment is not in any of them.
	TransitionStatus(ctx context.Context, id string, from []string, to string) error
	SetCheckout(ctx context.Context, id string, gatewayRef, checkoutURL string) error
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo constructs a new MongoDB PaymentRepository.
func NewMongoPaymentRepo() PaymentRepository {
	return &mongoPaymentRepo{
		coll: database.Collection("payments"),
	}
}
