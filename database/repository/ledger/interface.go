// File: database/repository/ledger/interface.go
package ledgerRepo

import (
	"context"
	"errors"

	"sportzone/database"
	"sportzone/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrVersionMismatch is returned when a version-fenced write matched no
// document: another writer won the race and the caller must retry from a
// fresh read.
var ErrVersionMismatch = errors.New("ledger version mismatch")

// ErrLedgerNotFound is returned when the addressed day ledger does not exist.
var ErrLedgerNotFound = errors.New("day ledger not found")

// LedgerRepository mutates day ledgers under the optimistic-concurrency
// protocol. All mutating methods join the transaction carried by ctx.
type LedgerRepository interface {
	// UpsertAndBump finds or lazily creates the ledger for (venue, court, date),
	// increments its version and returns the post-increment document. The single
	// atomic step both materializes a missing ledger and fences concurrent creators.
	UpsertAndBump(ctx context.Context, venueID string, court int, date string) (*models.DayLedger, error)
	// AppendWindow pushes a booked window and bumps the version, conditioned on
	// the version still equaling the value read by UpsertAndBump. Returns
	// ErrVersionMismatch if another writer got there first.
	AppendWindow(ctx context.Context, venueID string, court int, date string, w models.BookedWindow, version int64) error
	// RemoveWindow releases the window held by the given booking and bumps the version.
	RemoveWindow(ctx context.Context, venueID string, court int, date string, bookingID string) error
	SetHoliday(ctx context.Context, venueID string, court int, date string, reason string) error
	Get(ctx context.Context, venueID string, court int, date string) (*models.DayLedger, error)
	GetRange(ctx context.Context, venueID string, court int, fromDate, toDate string) ([]models.DayLedger, error)
}

type mongoLedgerRepo struct {
	coll *mongo.Collection
}

// NewMongoLedgerRepo constructs a new MongoDB LedgerRepository.
func NewMongoLedgerRepo() LedgerRepository {
	return &mongoLedgerRepo{
		coll: database.Collection("day_ledgers"),
	}
}
