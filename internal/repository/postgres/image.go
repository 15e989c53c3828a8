package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"imagestudio/internal/domain"
	"imagestudio/internal/domain/models"
	"imagestudio/internal/domain/repositories"
)

// PostgresImageRepository implements the ImageRepository interface
type PostgresImageRepository struct {
	pool *pgxpool.Pool
}

// NewImageRepository creates a new image repository
func NewImageRepository(pool *pgxpool.Pool) repositories.ImageRepository {
	return &PostgresImageRepository{pool: pool}
}

const imageColumns = `id, user_id, folder_id, prompt, s3_key, thumbnail_s3_key,
		width, height, model, provider, cached_url, cached_url_expiry,
		cached_thumbnail_url, cached_thumbnail_url_expiry, created_at`

func scanImage(row interface{ Scan(dest ...any) error }, img *models.Image) error {
	return row.Scan(
		&img.ID,
		&img.UserID,
		&img.FolderID,
		&img.Prompt,
		&img.StorageKey,
		&img.ThumbnailKey,
		&img.Width,
		&img.Height,
		&img.Model,
		&img.Provider,
		&img.CachedURL,
		&img.CachedURLExpiry,
		&img.CachedThumbnailURL,
		&img.CachedThumbnailURLExpiry,
		&img.CreatedAt,
	)
}

// Create inserts a new image row
func (r *PostgresImageRepository) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (id, user_id, folder_id, prompt, s3_key, thumbnail_s3_key,
			width, height, model, provider, cached_url, cached_url_expiry,
			cached_thumbnail_url, cached_thumbnail_url_expiry, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at
	`

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		image.ID,
		image.UserID,
		image.FolderID,
		image.Prompt,
		image.StorageKey,
		image.ThumbnailKey,
		image.Width,
		image.Height,
		image.Model,
		image.Provider,
		image.CachedURL,
		image.CachedURLExpiry,
		image.CachedThumbnailURL,
		image.CachedThumbnailURLExpiry,
		image.CreatedAt,
	).Scan(&image.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("image folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create image: %w", err)
	}

	return nil
}

// GetByID retrieves an image owned by the user
func (r *PostgresImageRepository) GetByID(ctx context.Context, id, userID string) (*models.Image, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM images
		WHERE id = $1 AND user_id = $2
	`, imageColumns)

	var img models.Image
	err := scanImage(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID), &img)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("image %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get image: %w", err)
	}

	return &img, nil
}

// ListByUser lists the user's images newest-first
func (r *PostgresImageRepository) ListByUser(ctx context.Context, userID string, filter repositories.ImageFilter, limit int) ([]models.Image, error) {
	var query string
	var args []interface{}

	switch {
	case !filter.ByFolder:
		query = fmt.Sprintf(`
			SELECT %s FROM images
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		`, imageColumns)
		args = append(args, userID, limit)
	case filter.FolderID == nil:
		query = fmt.Sprintf(`
			SELECT %s FROM images
			WHERE user_id = $1 AND folder_id IS NULL
			ORDER BY created_at DESC
			LIMIT $2
		`, imageColumns)
		args = append(args, userID, limit)
	default:
		query = fmt.Sprintf(`
			SELECT %s FROM images
			WHERE user_id = $1 AND folder_id = $2
			ORDER BY created_at DESC
			LIMIT $3
		`, imageColumns)
		args = append(args, userID, *filter.FolderID, limit)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		var img models.Image
		if err := scanImage(rows, &img); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}

	return images, nil
}

// CountByFolder returns per-folder image counts for the user
func (r *PostgresImageRepository) CountByFolder(ctx context.Context, userID string) (map[string]int, error) {
	query := `
		SELECT folder_id, COUNT(*)
		FROM images
		WHERE user_id = $1 AND folder_id IS NOT NULL
		GROUP BY folder_id
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("count images by folder: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var folderID string
		var count int
		if err := rows.Scan(&folderID, &count); err != nil {
			return nil, fmt.Errorf("scan image count: %w", err)
		}
		counts[folderID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image counts: %w", err)
	}

	return counts, nil
}

// CountUncategorized returns the number of images with no folder
func (r *PostgresImageRepository) CountUncategorized(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM images
		WHERE user_id = $1 AND folder_id IS NULL
	`

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count uncategorized images: %w", err)
	}

	return count, nil
}

// MoveToFolder re-points the given images at folderID, skipping ids the
// user does not own, and returns the ids actually moved.
func (r *PostgresImageRepository) MoveToFolder(ctx context.Context, userID string, imageIDs []string, folderID *string) ([]string, error) {
	query := `
		UPDATE images
		SET folder_id = $1
		WHERE id = ANY($2) AND user_id = $3
		RETURNING id
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, folderID, imageIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("move images: %w", err)
	}
	defer rows.Close()

	moved := make([]string, 0, len(imageIDs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan moved image id: %w", err)
		}
		moved = append(moved, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moved image ids: %w", err)
	}

	return moved, nil
}

// ReassignFolder re-points every image the user has in folderID at newFolderID
func (r *PostgresImageRepository) ReassignFolder(ctx context.Context, userID, folderID string, newFolderID *string) error {
	query := `
		UPDATE images
		SET folder_id = $1
		WHERE folder_id = $2 AND user_id = $3
	`

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query, newFolderID, folderID, userID)
	if err != nil {
		return fmt.Errorf("reassign images: %w", err)
	}

	return nil
}

// UpdateCachedURL stores a refreshed presigned URL and its expiry
func (r *PostgresImageRepository) UpdateCachedURL(ctx context.Context, id, url string, expiry time.Time) error {
	query := `
		UPDATE images
		SET cached_url = $1, cached_url_expiry = $2
		WHERE id = $3
	`

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, url, expiry, id); err != nil {
		return fmt.Errorf("update cached url: %w", err)
	}

	return nil
}

// UpdateCachedThumbnailURL stores a refreshed thumbnail URL and its expiry
func (r *PostgresImageRepository) UpdateCachedThumbnailURL(ctx context.Context, id, url string, expiry time.Time) error {
	query := `
		UPDATE images
		SET cached_thumbnail_url = $1, cached_thumbnail_url_expiry = $2
		WHERE id = $3
	`

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, url, expiry, id); err != nil {
		return fmt.Errorf("update cached thumbnail url: %w", err)
	}

	return nil
}
