package repositories

import (
	"context"
	"time"

	"imagestudio/internal/domain/models"
)

// ImageRepository defines data access operations for images
type ImageRepository interface {
	// Create inserts a new image row
	Create(ctx context.Context, image *models.Image) error

	// GetByID retrieves an image owned by the user
	GetByID(ctx context.Context, id, userID string) (*models.Image, error)

	// ListByUser lists the user's images newest-first, optionally
	// filtered by folder (ByFolder with a nil folder means uncategorized)
	ListByUser(ctx context.Context, userID string, filter ImageFilter, limit int) ([]models.Image, error)

	// CountByFolder returns per-folder image counts for the user,
	// keyed by folder ID; uncategorized images are not included
	CountByFolder(ctx context.Context, userID string) (map[string]int, error)

	// CountUncategorized returns the number of images with no folder
	CountUncategorized(ctx context.Context, userID string) (int, error)

	// MoveToFolder re-points the given images at folderID (nil = root),
	// skipping ids the user does not own, and returns the ids actually moved
	MoveToFolder(ctx context.Context, userID string, imageIDs []string, folderID *string) ([]string, error)

	// ReassignFolder re-points every image the user has in folderID at
	// newFolderID
	ReassignFolder(ctx context.Context, userID, folderID string, newFolderID *string) error

	// UpdateCachedURL stores a refreshed presigned URL and its expiry
	UpdateCachedURL(ctx context.Context, id, url string, expiry time.Time) error

	// UpdateCachedThumbnailURL stores a refreshed thumbnail URL and its expiry
	UpdateCachedThumbnailURL(ctx context.Context, id, url string, expiry time.Time) error
}

// ImageFilter selects which of the user's images to list.
type ImageFilter struct {
	ByFolder bool    // when false, list across all folders
	FolderID *string // nil = uncategorized (root)
}
