// File: database/repository/wallet/interface.go
package walletRepo

import (
	"context"

	"sportzone/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// WalletRepository exposes the narrow credit/debit surface the reservation
// core needs; full ledger bookkeeping is the wallet collaborator's job.
// All methods join the transaction carried by ctx.
type WalletRepository interface {
	CreditPending(ctx context.Context, ownerID string, amount int64) error
	DebitPending(ctx context.Context, ownerID string, amount int64) error
	// ReleasePending moves amount from the pending balance to available.
	ReleasePending(ctx context.Context, ownerID string, amount int64) error
	CreditRefundBalance(ctx context.Context, ownerID string, amount int64) error
}

type mongoWalletRepo struct {
	coll *mongo.Collection
}

// NewMongoWalletRepo constructs a new MongoDB WalletRepository.
func NewMongoWalletRepo() WalletRepository {
	return &mongoWalletRepo{
		coll: database.Collection("wallets"),
	}
}
