// File: database/repository/venue/venue_mongo.go
package venueRepo

import (
	"context"
	"fmt"

	"sportzone/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoVenueRepo) GetByID(ctx context.Context, id string) (*models.Venue, error) {
	var venue models.Venue
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&venue)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("venue lookup failed: %w", err)
	}
	return &venue, nil
}
