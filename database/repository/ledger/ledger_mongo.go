// File: database/repository/ledger/ledger_mongo.go
package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"sportzone/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ledgerKey(venueID string, court int, date string) bson.M {
	return bson.M{
		"venue_id":     venueID,
		"court_number": court,
		"date":         date,
	}
}

func (r *mongoLedgerRepo) UpsertAndBump(ctx context.Context, venueID string, court int, date string) (*models.DayLedger, error) {
	now := time.Now()
	update := bson.M{
		"$inc": bson.M{"version": 1},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"id":           uuid.New().String(),
			"venue_id":     venueID,
			"court_number": court,
			"date":         date,
			"booked_slots": bson.A{},
			"is_holiday":   false,
			"created_at":   now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var entry models.DayLedger
	err := r.coll.FindOneAndUpdate(ctx, ledgerKey(venueID, court, date), update, opts).Decode(&entry)
	if err != nil {
		return nil, fmt.Errorf("ledger upsert failed for %s/%d/%s: %w", venueID, court, date, err)
	}
	return &entry, nil
}

func (r *mongoLedgerRepo) AppendWindow(ctx context.Context, venueID string, court int, date string, w models.BookedWindow, version int64) error {
	filter := ledgerKey(venueID, court, date)
	filter["version"] = version

	update := bson.M{
		"$push": bson.M{
			"booked_slots": bson.M{
				"$each": bson.A{w},
				"$sort": bson.M{"start": 1},
			},
		},
		"$inc": bson.M{"version": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("ledger append failed: %w", err)
	}
	if res.MatchedCount == 0 {
		// Another writer bumped the version between our read and this write.
		return ErrVersionMismatch
	}
	return nil
}

func (r *mongoLedgerRepo) RemoveWindow(ctx context.Context, venueID string, court int, date string, bookingID string) error {
	update := bson.M{
		"$pull": bson.M{"booked_slots": bson.M{"booking_id": bookingID}},
		"$inc":  bson.M{"version": 1},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, ledgerKey(venueID, court, date), update)
	if err != nil {
		return fmt.Errorf("ledger release failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrLedgerNotFound
	}
	return nil
}

func (r *mongoLedgerRepo) SetHoliday(ctx context.Context, venueID string, court int, date string, reason string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"is_holiday":     true,
			"holiday_reason": reason,
			"updated_at":     now,
		},
		"$inc": bson.M{"version": 1},
		"$setOnInsert": bson.M{
			"id":           uuid.New().String(),
			"venue_id":     venueID,
			"court_number": court,
			"date":         date,
			"booked_slots": bson.A{},
			"created_at":   now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, ledgerKey(venueID, court, date), update, opts); err != nil {
		return fmt.Errorf("holiday update failed: %w", err)
	}
	return nil
}

func (r *mongoLedgerRepo) Get(ctx context.Context, venueID string, court int, date string) (*models.DayLedger, error) {
	var entry models.DayLedger
	err := r.coll.FindOne(ctx, ledgerKey(venueID, court, date)).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger lookup failed: %w", err)
	}
	return &entry, nil
}

func (r *mongoLedgerRepo) GetRange(ctx context.Context, venueID string, court int, fromDate, toDate string) ([]models.DayLedger, error) {
	filter := bson.M{
		"venue_id":     venueID,
		"court_number": court,
		"date":         bson.M{"$gte": fromDate, "$lte": toDate},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ledger range lookup failed: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.DayLedger
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("ledger range decode failed: %w", err)
	}
	return entries, nil
}
