package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// TxRunner executes a function inside a single database transaction. The ctx
// handed to fn carries the session, so every repository call made with it
// joins the same transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTxRunner runs fn inside a mongo session transaction with snapshot read
// isolation and majority-durable writes, bounded by a commit deadline. An
// expired deadline aborts the transaction; it is never treated as success.
type MongoTxRunner struct {
	Client        *mongo.Client
	CommitTimeout time.Duration
}

func NewMongoTxRunner(commitTimeout time.Duration) *MongoTxRunner {
	return &MongoTxRunner{Client: MongoClient, CommitTimeout: commitTimeout}
}

func (r *MongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.Client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	commitTimeout := r.CommitTimeout
	if commitTimeout <= 0 {
		commitTimeout = 10 * time.Second
	}
	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority()).
		SetMaxCommitTime(&commitTimeout)

	sc := mongo.NewSessionContext(ctx, sess)
	if err := sess.StartTransaction(txnOpts); err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	if err := fn(sc); err != nil {
		_ = sess.AbortTransaction(sc)
		return err
	}
	if err := sess.CommitTransaction(sc); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}
