// File: database/repository/payment/payment_mongo.go
package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"sportzone/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if _, err := r.coll.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("insert payment failed: %w", err)
	}
	return nil
}

func (r *mongoPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("payment lookup failed: %w", err)
	}
	return &payment, nil
}

func (r *mongoPaymentRepo) SetStatus(ctx context.Context, id string, status string) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("payment status update failed: %w", err)
	}
	return nil
}

func (r *mongoPaymentRepo) TransitionStatus(ctx context.Context, id string, from []string, to string) error {
	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("payment status transition failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoTransition
	}
	return nil
}

func (r *mongoPaymentRepo) SetCheckout(ctx context.Context, id string, gatewayRef, checkoutURL string) error {
	update := bson.M{"$set": bson.M{
		"gateway_ref":  gatewayRef,
		"checkout_url": checkoutURL,
		"updated_at":   time.Now(),
	}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("payment checkout update failed: %w", err)
	}
	return nil
}
