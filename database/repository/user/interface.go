// File: database/repository/user/interface.go
package userRepo

import (
	"context"

	"sportzone/database"
	"sportzone/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Exists(ctx context.Context, id string) (bool, error)
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a new MongoDB UserRepository.
func NewMongoUserRepo() UserRepository {
	return &mongoUserRepo{
		coll: database.Collection("users"),
	}
}
