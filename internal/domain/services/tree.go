package services

import (
	"context"

	"imagestudio/internal/domain/models"
)

// TreeService builds the nested folder tree for a user
type TreeService interface {
	// GetFolderTree returns the user's folder forest with per-folder
	// image counts and the count of uncategorized images
	GetFolderTree(ctx context.Context, userID string) (*models.FolderTree, error)
}
