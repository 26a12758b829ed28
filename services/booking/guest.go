package booking

import (
	"context"
	"fmt"
	"time"

	"sportzone/models"

	"github.com/google/uuid"
)

// resolveOwner returns the booking owner. Guests are resolved (or lazily
// created) by email before the reservation transaction starts; the record is
// re-verified inside the transaction because a write made out here is not
// guaranteed to be visible to the snapshot in there.
func (e *DefaultReservationEngine) resolveOwner(ctx context.Context, userID string, guest *models.GuestContact) (*models.User, error) {
	if userID != "" {
		user, err := e.Users.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("fetch user: %w", err)
		}
		if user == nil {
			return nil, NewNotFoundError("user %s not found", userID)
		}
		return user, nil
	}

	if guest == nil || guest.Email == "" {
		return nil, NewValidationError("guest email is required")
	}

	existing, err := e.Users.GetByEmail(ctx, guest.Email)
	if err != nil {
		return nil, fmt.Errorf("resolve guest: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     guest.Email,
		Name:      guest.Name,
		Phone:     guest.Phone,
		Role:      models.RoleCustomer,
		Guest:     true,
		CreatedAt: time.Now(),
	}
	if err := e.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create guest user: %w", err)
	}
	return user, nil
}

// ensureOwner re-verifies inside the transaction that the owner record exists,
// recreating it if the pre-transaction write is not visible yet. Without this
// the booking could reference a not-yet-committed guest record.
func (e *DefaultReservationEngine) ensureOwner(ctx context.Context, owner *models.User) error {
	exists, err := e.Users.Exists(ctx, owner.ID)
	if err != nil {
		return fmt.Errorf("verify booking owner: %w", err)
	}
	if exists {
		return nil
	}
	if !owner.Guest {
		return NewNotFoundError("user %s not found", owner.ID)
	}
	if err := e.Users.Create(ctx, owner); err != nil {
		return fmt.Errorf("recreate guest user: %w", err)
	}
	return nil
}
