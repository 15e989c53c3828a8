package repositories

import (
	"context"

	"imagestudio/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// Every operation is scoped to the owning user; a folder belonging to a
// different user is indistinguishable from one that does not exist.
type FolderRepository interface {
	// Create inserts a new folder and fills in its generated fields
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder owned by the user
	GetByID(ctx context.Context, id, userID string) (*models.Folder, error)

	// Update persists name, parent, color, icon and updated_at
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes the folder row only; the caller is responsible for
	// re-homing children and contents first (within a transaction)
	Delete(ctx context.Context, id, userID string) error

	// ListByUser retrieves the user's full flat folder list
	ListByUser(ctx context.Context, userID string) ([]models.Folder, error)

	// ReassignChildren re-points every direct child of folderID at
	// newParentID and bumps their updated_at
	ReassignChildren(ctx context.Context, folderID string, newParentID *string, userID string) error
}
