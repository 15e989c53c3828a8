package repositories

import (
	"context"

	"imagestudio/internal/domain/models"
)

// UserRepository defines data access operations for users
type UserRepository interface {
	// GetByID retrieves a user by their auth provider ID
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Upsert inserts the user if missing; existing rows are left untouched
	Upsert(ctx context.Context, user *models.User) error
}
