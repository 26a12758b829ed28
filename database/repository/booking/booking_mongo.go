// File: database/repository/booking/booking_mongo.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"sportzone/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) CreateMany(ctx context.Context, bookings []models.Booking) error {
	docs := make([]interface{}, len(bookings))
	for i := range bookings {
		docs[i] = bookings[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert bookings failed: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("booking lookup failed: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) GetByGroupID(ctx context.Context, groupID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"group_id": groupID})
}

func (r *mongoBookingRepo) ListByPaymentID(ctx context.Context, paymentID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"payment_id": paymentID})
}

func (r *mongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("booking query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("booking decode failed: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) MarkPaid(ctx context.Context, id string, status string) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"payment_status": models.PaymentStatusPaid,
			"status":         status,
			"updated_at":     time.Now(),
		},
	}
	// First try to claim the unpaid->paid flip; only one delivery wins it.
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "payment_status": bson.M{"$ne": models.PaymentStatusPaid}}, update)
	if err != nil {
		return false, fmt.Errorf("mark paid failed: %w", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	// Already paid: converge on the same document without claiming the flip.
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return false, fmt.Errorf("mark paid failed: %w", err)
	}
	return false, nil
}

func (r *mongoBookingRepo) TransitionStatus(ctx context.Context, id string, from []string, to string) error {
	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("status transition failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoTransition
	}
	return nil
}

func (r *mongoBookingRepo) MarkCancelled(ctx context.Context, id string, reason string, refunded bool) error {
	set := bson.M{
		"status":              models.BookingStatusCancelled,
		"cancellation_reason": reason,
		"updated_at":          time.Now(),
	}
	if refunded {
		set["payment_status"] = models.PaymentStatusRefunded
	}
	filter := bson.M{
		"id": id,
		"status": bson.M{"$in": []string{
			models.BookingStatusPending, models.BookingStatusConfirmed,
		}},
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mark cancelled failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoTransition
	}
	return nil
}

func (r *mongoBookingRepo) SetApproval(ctx context.Context, id string, approval string) error {
	update := bson.M{"$set": bson.M{"approval_status": approval, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("set approval failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoTransition
	}
	return nil
}
