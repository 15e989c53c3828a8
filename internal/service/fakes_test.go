package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"imagestudio/internal/domain"
	"imagestudio/internal/domain/models"
	"imagestudio/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// In-memory repository fakes. They mirror the ownership semantics of
// the postgres implementations: lookups scoped to the wrong user report
// not found.

type fakeFolderRepo struct {
	folders []*models.Folder
	seq     int
}

func (r *fakeFolderRepo) add(id, userID string, parentID *string, name string) *models.Folder {
	f := &models.Folder{
		ID:        id,
		UserID:    userID,
		ParentID:  parentID,
		Name:      name,
		Color:     models.DefaultFolderColor,
		Icon:      models.DefaultFolderIcon,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.folders = append(r.folders, f)
	return f
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		r.seq++
		folder.ID = fmt.Sprintf("folder-%d", r.seq)
	}
	cp := *folder
	r.folders = append(r.folders, &cp)
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id, userID string) (*models.Folder, error) {
	for _, f := range r.folders {
		if f.ID == id && f.UserID == userID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	for i, f := range r.folders {
		if f.ID == folder.ID && f.UserID == folder.UserID {
			cp := *folder
			r.folders[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
}

func (r *fakeFolderRepo) Delete(_ context.Context, id, userID string) error {
	for i, f := range r.folders {
		if f.ID == id && f.UserID == userID {
			r.folders = append(r.folders[:i], r.folders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
}

func (r *fakeFolderRepo) ListByUser(_ context.Context, userID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.UserID == userID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ReassignChildren(_ context.Context, folderID string, newParentID *string, userID string) error {
	for _, f := range r.folders {
		if f.UserID == userID && f.ParentID != nil && *f.ParentID == folderID {
			f.ParentID = newParentID
		}
	}
	return nil
}

type fakeImageRepo struct {
	images []*models.Image
}

func (r *fakeImageRepo) add(id, userID string, folderID *string) *models.Image {
	img := &models.Image{
		ID:        id,
		UserID:    userID,
		FolderID:  folderID,
		Prompt:    "test prompt",
		Width:     1024,
		Height:    1024,
		Model:     "flat-fill-dev",
		Provider:  "dev",
		CreatedAt: time.Now(),
	}
	r.images = append(r.images, img)
	return img
}

func (r *fakeImageRepo) Create(_ context.Context, image *models.Image) error {
	cp := *image
	r.images = append(r.images, &cp)
	return nil
}

func (r *fakeImageRepo) GetByID(_ context.Context, id, userID string) (*models.Image, error) {
	for _, img := range r.images {
		if img.ID == id && img.UserID == userID {
			cp := *img
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("image %s: %w", id, domain.ErrNotFound)
}

func (r *fakeImageRepo) ListByUser(_ context.Context, userID string, filter repositories.ImageFilter, limit int) ([]models.Image, error) {
	var out []models.Image
	for _, img := range r.images {
		if img.UserID != userID {
			continue
		}
		if filter.ByFolder {
			if filter.FolderID == nil {
				if img.FolderID != nil {
					continue
				}
			} else if img.FolderID == nil || *img.FolderID != *filter.FolderID {
				continue
			}
		}
		out = append(out, *img)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeImageRepo) CountByFolder(_ context.Context, userID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, img := range r.images {
		if img.UserID == userID && img.FolderID != nil {
			counts[*img.FolderID]++
		}
	}
	return counts, nil
}

func (r *fakeImageRepo) CountUncategorized(_ context.Context, userID string) (int, error) {
	count := 0
	for _, img := range r.images {
		if img.UserID == userID && img.FolderID == nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeImageRepo) MoveToFolder(_ context.Context, userID string, imageIDs []string, folderID *string) ([]string, error) {
	moved := make([]string, 0, len(imageIDs))
	for _, id := range imageIDs {
		for _, img := range r.images {
			if img.ID == id && img.UserID == userID {
				img.FolderID = folderID
				moved = append(moved, id)
			}
		}
	}
	return moved, nil
}

func (r *fakeImageRepo) ReassignFolder(_ context.Context, userID, folderID string, newFolderID *string) error {
	for _, img := range r.images {
		if img.UserID == userID && img.FolderID != nil && *img.FolderID == folderID {
			img.FolderID = newFolderID
		}
	}
	return nil
}

func (r *fakeImageRepo) UpdateCachedURL(_ context.Context, id, url string, expiry time.Time) error {
	for _, img := range r.images {
		if img.ID == id {
			img.CachedURL = &url
			img.CachedURLExpiry = &expiry
		}
	}
	return nil
}

func (r *fakeImageRepo) UpdateCachedThumbnailURL(_ context.Context, id, url string, expiry time.Time) error {
	for _, img := range r.images {
		if img.ID == id {
			img.CachedThumbnailURL = &url
			img.CachedThumbnailURLExpiry = &expiry
		}
	}
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *models.User) error {
	if r.users == nil {
		r.users = make(map[string]*models.User)
	}
	if _, ok := r.users[user.ID]; !ok {
		cp := *user
		r.users[user.ID] = &cp
	}
	return nil
}

// fakeTxManager runs the function directly; the fakes mutate shared
// state so there is nothing to commit or roll back.
type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeStore is an in-memory blob store.
type fakeStore struct {
	objects map[string][]byte
}

func (s *fakeStore) Put(_ context.Context, key string, body []byte, _ string) error {
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = body
	return nil
}

func (s *fakeStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	body, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (s *fakeStore) PresignedGetURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://blobs.test/" + key, nil
}
