package services

import (
	"context"
	"io"

	"imagestudio/internal/domain/models"
)

// ImageService handles gallery listing, bulk moves and generation
type ImageService interface {
	// ListImages lists the user's images with live URLs. folderFilter is
	// the raw query value: "" for all, "root" for uncategorized, or a
	// folder id.
	ListImages(ctx context.Context, userID, folderFilter string) ([]models.ImageResponse, error)

	// MoveImages re-points a batch of images at a folder (nil = root),
	// reporting exactly which ids were moved
	MoveImages(ctx context.Context, userID string, req *MoveImagesRequest) (*MoveImagesResult, error)

	// GenerateImage runs a generation backend and persists the result
	GenerateImage(ctx context.Context, user *models.AuthUser, req *GenerateImageRequest) (*models.ImageResponse, error)

	// EditImage generates a variation of a caller-supplied source image
	EditImage(ctx context.Context, user *models.AuthUser, req *EditImageRequest) (*models.ImageResponse, error)

	// DownloadImage streams the original image bytes from the blob store
	DownloadImage(ctx context.Context, userID, imageID string) (io.ReadCloser, error)
}

// MoveImagesRequest represents a bulk image move
type MoveImagesRequest struct {
	ImageIDs []string `json:"imageIds"`
	FolderID *string  `json:"folderId"` // null = move to root
}

// MoveImagesResult reports which images were actually moved so clients
// can reconcile optimistic state.
type MoveImagesResult struct {
	Success    bool     `json:"success"`
	MovedCount int      `json:"movedCount"`
	MovedIDs   []string `json:"movedIds"`
}

// GenerateImageRequest represents an image generation request
type GenerateImageRequest struct {
	Prompt   string  `json:"prompt"`
	Size     string  `json:"size,omitempty"`
	Model    string  `json:"model,omitempty"`
	FolderID *string `json:"folderId,omitempty"`
}

// EditImageRequest represents a variation request on an existing image
type EditImageRequest struct {
	SourceImage string  `json:"sourceImage"` // base64 encoded
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model"`
	FolderID    *string `json:"folderId,omitempty"`
}
