// File: database/repository/wallet/wallet_mongo.go
package walletRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoWalletRepo) adjust(ctx context.Context, ownerID string, inc bson.M) error {
	update := bson.M{
		"$inc":         inc,
		"$set":         bson.M{"updated_at": time.Now()},
		"$setOnInsert": bson.M{"owner_id": ownerID},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"owner_id": ownerID}, update, opts); err != nil {
		return fmt.Errorf("wallet adjustment failed for %s: %w", ownerID, err)
	}
	return nil
}

func (r *mongoWalletRepo) CreditPending(ctx context.Context, ownerID string, amount int64) error {
	return r.adjust(ctx, ownerID, bson.M{"pending": amount})
}

func (r *mongoWalletRepo) DebitPending(ctx context.Context, ownerID string, amount int64) error {
	return r.adjust(ctx, ownerID, bson.M{"pending": -amount})
}

func (r *mongoWalletRepo) ReleasePending(ctx context.Context, ownerID string, amount int64) error {
	return r.adjust(ctx, ownerID, bson.M{"pending": -amount, "available": amount})
}

func (r *mongoWalletRepo) CreditRefundBalance(ctx context.Context, ownerID string, amount int64) error {
	return r.adjust(ctx, ownerID, bson.M{"refund_balance": amount})
}
