// File: database/repository/venue/interface.go
package venueRepo

import (
	"context"

	"sportzone/database"
	"sportzone/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// VenueRepository is read-only here: venue configuration is owned by the
// catalog service.
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*models.Venue, error)
}

type mongoVenueRepo struct {
	coll *mongo.Collection
}

// NewMongoVenueRepo constructs a new MongoDB VenueRepository.
func NewMongoVenueRepo() VenueRepository {
	return &mongoVenueRepo{
		coll: database.Collection("venues"),
	}
}
