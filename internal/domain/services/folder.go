package services

import (
	"context"

	"imagestudio/internal/domain/models"
	"imagestudio/internal/httputil"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a new folder, optionally under a parent
	CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a single folder
	GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error)

	// UpdateFolder renames, recolors or re-parents a folder
	UpdateFolder(ctx context.Context, userID, folderID string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder, promoting its images and child
	// folders to the folder's own parent
	DeleteFolder(ctx context.Context, userID, folderID string) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"`
	Color    string  `json:"color,omitempty"`
	Icon     string  `json:"icon,omitempty"`
}

// UpdateFolderRequest represents a folder update request. ParentID is
// tri-state: absent leaves the parent alone, null moves to root, an id
// re-parents under that folder.
type UpdateFolderRequest struct {
	Name     *string                 `json:"name,omitempty"`
	ParentID httputil.OptionalString `json:"parentId,omitempty"`
	Color    *string                 `json:"color,omitempty"`
	Icon     *string                 `json:"icon,omitempty"`
}
