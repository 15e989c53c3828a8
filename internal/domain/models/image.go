package models

import "time"

type Image struct {
	ID           string  `json:"id" db:"id"`
	UserID       string  `json:"-" db:"user_id"`
	FolderID     *string `json:"folderId" db:"folder_id"` // NULL = root/uncategorized
	Prompt       string  `json:"prompt" db:"prompt"`
	StorageKey   string  `json:"-" db:"s3_key"`
	ThumbnailKey *string `json:"-" db:"thumbnail_s3_key"`
	Width        int     `json:"width" db:"width"`
	Height       int     `json:"height" db:"height"`
	Model        string  `json:"model" db:"model"`
	Provider     string  `json:"provider" db:"provider"`
	// Presigned URLs are cached on the row so gallery listings don't
	// re-sign every object on every request.
	CachedURL                *string    `json:"-" db:"cached_url"`
	CachedURLExpiry          *time.Time `json:"-" db:"cached_url_expiry"`
	CachedThumbnailURL       *string    `json:"-" db:"cached_thumbnail_url"`
	CachedThumbnailURLExpiry *time.Time `json:"-" db:"cached_thumbnail_url_expiry"`
	CreatedAt                time.Time  `json:"createdAt" db:"created_at"`
}

// ImageResponse is the gallery wire format: metadata plus live URLs.
type ImageResponse struct {
	ID           string    `json:"id"`
	Prompt       string    `json:"prompt"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Model        string    `json:"model"`
	Provider     string    `json:"provider"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	FolderID     *string   `json:"folderId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Response formats an image row with its (possibly refreshed) URLs.
func (img *Image) Response(url, thumbnailURL string) ImageResponse {
	return ImageResponse{
		ID:           img.ID,
		Prompt:       img.Prompt,
		Width:        img.Width,
		Height:       img.Height,
		Model:        img.Model,
		Provider:     img.Provider,
		URL:          url,
		ThumbnailURL: thumbnailURL,
		FolderID:     img.FolderID,
		CreatedAt:    img.CreatedAt,
	}
}
