package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"imagestudio/internal/domain"
	"imagestudio/internal/domain/models"
	"imagestudio/internal/domain/services"
	"imagestudio/internal/provider"
)

func newTestImageService(folderRepo *fakeFolderRepo, imageRepo *fakeImageRepo, store *fakeStore) services.ImageService {
	registry := provider.NewRegistry(provider.FlatFillModelID)
	registry.Register(provider.NewFlatFillBackend(), provider.FlatFillModel())

	return NewImageService(imageRepo, folderRepo, &fakeUserRepo{}, store, registry, time.Hour, testLogger())
}

func testAuthUser() *models.AuthUser {
	return &models.AuthUser{ID: "user-1", Email: "u1@example.com"}
}

func TestMoveImages_SkipsForeignIDs(t *testing.T) {
	folderRepo := &fakeFolderRepo{}
	imageRepo := &fakeImageRepo{}
	folderRepo.add("dest", "user-1", nil, "Dest")
	imageRepo.add("img1", "user-1", nil)
	imageRepo.add("img2", "user-1", nil)
	imageRepo.add("img3", "user-2", nil)

	svc := newTestImageService(folderRepo, imageRepo, &fakeStore{})

	result, err := svc.MoveImages(context.Background(), "user-1", &services.MoveImagesRequest{
		ImageIDs: []string{"img1", "img2", "img3", "ghost"},
		FolderID: strptr("dest"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Success {
		t.Error("expected success")
	}
	if result.MovedCount != 2 {
		t.Errorf("expected 2 moved, got %d", result.MovedCount)
	}
	if len(result.MovedIDs) != 2 || result.MovedIDs[0] != "img1" || result.MovedIDs[1] != "img2" {
		t.Errorf("unexpected moved ids: %v", result.MovedIDs)
	}

	// the foreign image did not move
	foreign, err := imageRepo.GetByID(context.Background(), "img3", "user-2")
	if err != nil {
		t.Fatalf("foreign image disappeared: %v", err)
	}
	if foreign.FolderID != nil {
		t.Errorf("foreign image was moved to %v", *foreign.FolderID)
	}
}

func TestMoveImages_BatchBounds(t *testing.T) {
	svc := newTestImageService(&fakeFolderRepo{}, &fakeImageRepo{}, &fakeStore{})

	tooMany := make([]string, 101)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("img-%d", i)
	}

	tests := []struct {
		name string
		ids  []string
	}{
		{"empty batch", nil},
		{"over the cap", tooMany},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.MoveImages(context.Background(), "user-1", &services.MoveImagesRequest{
				ImageIDs: tt.ids,
			})
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestMoveImages_TargetFolderOwnership(t *testing.T) {
	folderRepo := &fakeFolderRepo{}
	imageRepo := &fakeImageRepo{}
	folderRepo.add("theirs", "user-2", nil, "Theirs")
	imageRepo.add("img1", "user-1", nil)

	svc := newTestImageService(folderRepo, imageRepo, &fakeStore{})

	_, err := svc.MoveImages(context.Background(), "user-1", &services.MoveImagesRequest{
		ImageIDs: []string{"img1"},
		FolderID: strptr("theirs"),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for foreign target folder, got %v", err)
	}
}

func TestMoveImages_ToRoot(t *testing.T) {
	folderRepo := &fakeFolderRepo{}
	imageRepo := &fakeImageRepo{}
	folderRepo.add("src", "user-1", nil, "Src")
	img := imageRepo.add("img1", "user-1", strptr("src"))

	svc := newTestImageService(folderRepo, imageRepo, &fakeStore{})

	result, err := svc.MoveImages(context.Background(), "user-1", &services.MoveImagesRequest{
		ImageIDs: []string{"img1"},
		FolderID: nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MovedCount != 1 {
		t.Fatalf("expected 1 moved, got %d", result.MovedCount)
	}
	if img.FolderID != nil {
		t.Errorf("expected image at root, got folder %v", *img.FolderID)
	}
}

func TestGenerateImage_PersistsAndUploads(t *testing.T) {
	folderRepo := &fakeFolderRepo{}
	imageRepo := &fakeImageRepo{}
	store := &fakeStore{}
	folderRepo.add("dest", "user-1", nil, "Dest")

	svc := newTestImageService(folderRepo, imageRepo, store)

	resp, err := svc.GenerateImage(context.Background(), testAuthUser(), &services.GenerateImageRequest{
		Prompt:   "a quiet harbor at dawn",
		FolderID: strptr("dest"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Width != 1024 || resp.Height != 1024 {
		t.Errorf("expected default square size, got %dx%d", resp.Width, resp.Height)
	}
	if resp.Provider != "dev" || resp.Model != provider.FlatFillModelID {
		t.Errorf("unexpected model attribution: %s/%s", resp.Provider, resp.Model)
	}
	if resp.FolderID == nil || *resp.FolderID != "dest" {
		t.Errorf("expected folder dest, got %v", resp.FolderID)
	}
	if resp.URL == "" {
		t.Error("expected a presigned URL")
	}
	if resp.ThumbnailURL == "" {
		t.Error("expected a thumbnail URL")
	}

	// both objects landed under the caller's prefix
	wantKey := fmt.Sprintf("users/user-1/%s.png", resp.ID)
	if _, ok := store.objects[wantKey]; !ok {
		t.Errorf("image object %s not uploaded; have %v", wantKey, keysOf(store.objects))
	}
	wantThumb := fmt.Sprintf("users/user-1/%s_thumb.jpg", resp.ID)
	if _, ok := store.objects[wantThumb]; !ok {
		t.Errorf("thumbnail object %s not uploaded", wantThumb)
	}

	stored, err := imageRepo.GetByID(context.Background(), resp.ID, "user-1")
	if err != nil {
		t.Fatalf("image row not persisted: %v", err)
	}
	if stored.StorageKey != wantKey {
		t.Errorf("expected storage key %s, got %s", wantKey, stored.StorageKey)
	}
}

func TestGenerateImage_Validation(t *testing.T) {
	svc := newTestImageService(&fakeFolderRepo{}, &fakeImageRepo{}, &fakeStore{})

	tests := []struct {
		name string
		req  services.GenerateImageRequest
	}{
		{"empty prompt", services.GenerateImageRequest{Prompt: ""}},
		{"prompt too long", services.GenerateImageRequest{Prompt: strings.Repeat("p", 4001)}},
		{"unsupported size", services.GenerateImageRequest{Prompt: "ok", Size: "512x512"}},
		{"unknown model", services.GenerateImageRequest{Prompt: "ok", Model: "imaginary-9000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GenerateImage(context.Background(), testAuthUser(), &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestEditImage_PrefixesPrompt(t *testing.T) {
	imageRepo := &fakeImageRepo{}
	store := &fakeStore{}
	svc := newTestImageService(&fakeFolderRepo{}, imageRepo, store)

	source := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))

	resp, err := svc.EditImage(context.Background(), testAuthUser(), &services.EditImageRequest{
		SourceImage: source,
		Prompt:      "make it snowy",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := imageRepo.GetByID(context.Background(), resp.ID, "user-1")
	if err != nil {
		t.Fatalf("image row not persisted: %v", err)
	}
	if stored.Prompt != "[Variation] make it snowy" {
		t.Errorf("expected variation prefix, got %q", stored.Prompt)
	}
}

func TestEditImage_BadSource(t *testing.T) {
	svc := newTestImageService(&fakeFolderRepo{}, &fakeImageRepo{}, &fakeStore{})

	_, err := svc.EditImage(context.Background(), testAuthUser(), &services.EditImageRequest{
		SourceImage: "not base64 at all!!!",
		Prompt:      "ok",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListImages_RefreshesExpiredURLs(t *testing.T) {
	imageRepo := &fakeImageRepo{}
	store := &fakeStore{}
	svc := newTestImageService(&fakeFolderRepo{}, imageRepo, store)

	img := imageRepo.add("img1", "user-1", nil)
	img.StorageKey = "users/user-1/img1.png"
	stale := "https://blobs.test/stale"
	expired := time.Now().Add(-time.Hour)
	img.CachedURL = &stale
	img.CachedURLExpiry = &expired

	images, err := svc.ListImages(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}

	if images[0].URL != "https://blobs.test/users/user-1/img1.png" {
		t.Errorf("expected refreshed URL, got %q", images[0].URL)
	}
	if img.CachedURL == nil || *img.CachedURL == stale {
		t.Error("refreshed URL was not written back to the row")
	}
}

func TestListImages_FolderFilters(t *testing.T) {
	imageRepo := &fakeImageRepo{}
	svc := newTestImageService(&fakeFolderRepo{}, imageRepo, &fakeStore{})

	setKey := func(img *models.Image) {
		img.StorageKey = "users/user-1/" + img.ID + ".png"
	}
	setKey(imageRepo.add("img1", "user-1", strptr("f1")))
	setKey(imageRepo.add("img2", "user-1", nil))
	setKey(imageRepo.add("img3", "user-1", nil))

	tests := []struct {
		name   string
		filter string
		want   int
	}{
		{"all", "", 3},
		{"uncategorized", "root", 2},
		{"one folder", "f1", 1},
		{"unknown folder", "nope", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images, err := svc.ListImages(context.Background(), "user-1", tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(images) != tt.want {
				t.Errorf("expected %d images, got %d", tt.want, len(images))
			}
		})
	}
}

func TestDownloadImage(t *testing.T) {
	imageRepo := &fakeImageRepo{}
	store := &fakeStore{}
	svc := newTestImageService(&fakeFolderRepo{}, imageRepo, store)

	img := imageRepo.add("img1", "user-1", nil)
	img.StorageKey = "users/user-1/img1.png"
	store.Put(context.Background(), img.StorageKey, []byte("png payload"), "image/png")

	body, err := svc.DownloadImage(context.Background(), "user-1", "img1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer body.Close()

	// ownership scoping applies to downloads too
	if _, err := svc.DownloadImage(context.Background(), "user-2", "img1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found for foreign caller, got %v", err)
	}
}

func keysOf(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
