package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"imagestudio/internal/config"
	"imagestudio/internal/domain"
	"imagestudio/internal/domain/models"
	"imagestudio/internal/domain/repositories"
	"imagestudio/internal/domain/services"
	"imagestudio/internal/provider"
	"imagestudio/internal/storage"
	"imagestudio/internal/utils"
)

// Presigned URLs within this margin of expiry are re-signed instead of
// served, so a client never receives a URL about to go stale.
const urlExpiryMargin = 5 * time.Minute

// variationPrefix marks prompts that came from an edit of an existing image.
const variationPrefix = "[Variation] "

type imageService struct {
	imageRepo     repositories.ImageRepository
	folderRepo    repositories.FolderRepository
	userRepo      repositories.UserRepository
	store         storage.Store
	registry      *provider.Registry
	presignExpiry time.Duration
	logger        *slog.Logger
}

// NewImageService creates a new image service
func NewImageService(
	imageRepo repositories.ImageRepository,
	folderRepo repositories.FolderRepository,
	userRepo repositories.UserRepository,
	store storage.Store,
	registry *provider.Registry,
	presignExpiry time.Duration,
	logger *slog.Logger,
) services.ImageService {
	return &imageService{
		imageRepo:     imageRepo,
		folderRepo:    folderRepo,
		userRepo:      userRepo,
		store:         store,
		registry:      registry,
		presignExpiry: presignExpiry,
		logger:        logger,
	}
}

// ListImages lists the user's images with live URLs
func (s *imageService) ListImages(ctx context.Context, userID, folderFilter string) ([]models.ImageResponse, error) {
	var filter repositories.ImageFilter
	switch folderFilter {
	case "":
		// all images
	case "root":
		filter = repositories.ImageFilter{ByFolder: true}
	default:
		filter = repositories.ImageFilter{ByFolder: true, FolderID: &folderFilter}
	}

	images, err := s.imageRepo.ListByUser(ctx, userID, filter, config.MaxImagePageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]models.ImageResponse, 0, len(images))
	for i := range images {
		url, thumbURL := s.liveURLs(ctx, &images[i])
		responses = append(responses, images[i].Response(url, thumbURL))
	}

	return responses, nil
}

// liveURLs returns usable presigned URLs for an image, serving cached
// ones while fresh and re-signing (best effort) otherwise. A presign
// failure yields an empty URL rather than failing the listing.
func (s *imageService) liveURLs(ctx context.Context, img *models.Image) (url, thumbURL string) {
	cutoff := time.Now().Add(urlExpiryMargin)

	if img.CachedURL != nil && img.CachedURLExpiry != nil && img.CachedURLExpiry.After(cutoff) {
		url = *img.CachedURL
	} else {
		fresh, err := s.store.PresignedGetURL(ctx, img.StorageKey, s.presignExpiry)
		if err != nil {
			s.logger.Warn("presign failed", "image_id", img.ID, "error", err)
		} else {
			url = fresh
			if err := s.imageRepo.UpdateCachedURL(ctx, img.ID, fresh, time.Now().Add(s.presignExpiry)); err != nil {
				s.logger.Warn("cache url update failed", "image_id", img.ID, "error", err)
			}
		}
	}

	if img.ThumbnailKey == nil {
		return url, ""
	}

	if img.CachedThumbnailURL != nil && img.CachedThumbnailURLExpiry != nil && img.CachedThumbnailURLExpiry.After(cutoff) {
		thumbURL = *img.CachedThumbnailURL
	} else {
		fresh, err := s.store.PresignedGetURL(ctx, *img.ThumbnailKey, s.presignExpiry)
		if err != nil {
			s.logger.Warn("presign thumbnail failed", "image_id", img.ID, "error", err)
		} else {
			thumbURL = fresh
			if err := s.imageRepo.UpdateCachedThumbnailURL(ctx, img.ID, fresh, time.Now().Add(s.presignExpiry)); err != nil {
				s.logger.Warn("cache thumbnail url update failed", "image_id", img.ID, "error", err)
			}
		}
	}

	return url, thumbURL
}

// MoveImages re-points a batch of images at a folder (nil = root)
func (s *imageService) MoveImages(ctx context.Context, userID string, req *services.MoveImagesRequest) (*services.MoveImagesResult, error) {
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.ImageIDs,
			validation.Required,
			validation.Length(1, config.MaxMoveBatchSize),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	// Target folder must exist and belong to the caller
	if req.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.FolderID, userID); err != nil {
			return nil, fmt.Errorf("target folder: %w", err)
		}
	}

	movedIDs, err := s.imageRepo.MoveToFolder(ctx, userID, req.ImageIDs, req.FolderID)
	if err != nil {
		return nil, err
	}
	if movedIDs == nil {
		movedIDs = []string{}
	}

	s.logger.Info("images moved",
		"user_id", userID,
		"requested", len(req.ImageIDs),
		"moved", len(movedIDs),
		"folder_id", req.FolderID,
	)

	return &services.MoveImagesResult{
		Success:    true,
		MovedCount: len(movedIDs),
		MovedIDs:   movedIDs,
	}, nil
}

// GenerateImage runs a generation backend and persists the result
func (s *imageService) GenerateImage(ctx context.Context, user *models.AuthUser, req *services.GenerateImageRequest) (*models.ImageResponse, error) {
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.Prompt,
			validation.Required,
			validation.Length(1, config.MaxPromptLength),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	width, height, err := provider.ParseSize(req.Size)
	if err != nil {
		return nil, err
	}

	backend, modelCfg, err := s.registry.Resolve(req.Model)
	if err != nil {
		return nil, err
	}

	if err := s.prepareOwner(ctx, user, req.FolderID); err != nil {
		return nil, err
	}

	gen, err := backend.Generate(ctx, modelCfg.ID, &provider.Request{
		Prompt: req.Prompt,
		Width:  width,
		Height: height,
	})
	if err != nil {
		return nil, err
	}

	return s.persistImage(ctx, user.ID, req.Prompt, req.FolderID, modelCfg, gen)
}

// EditImage generates a variation of a caller-supplied source image
func (s *imageService) EditImage(ctx context.Context, user *models.AuthUser, req *services.EditImageRequest) (*models.ImageResponse, error) {
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.SourceImage, validation.Required),
		validation.Field(&req.Prompt,
			validation.Required,
			validation.Length(1, config.MaxPromptLength),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	source, err := decodeSourceImage(req.SourceImage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	backend, modelCfg, err := s.registry.Resolve(req.Model)
	if err != nil {
		return nil, err
	}

	if err := s.prepareOwner(ctx, user, req.FolderID); err != nil {
		return nil, err
	}

	// Edits are always square; the prompt records its origin
	prompt := variationPrefix + req.Prompt
	gen, err := backend.Edit(ctx, modelCfg.ID, source, &provider.Request{
		Prompt: prompt,
		Width:  1024,
		Height: 1024,
	})
	if err != nil {
		return nil, err
	}

	return s.persistImage(ctx, user.ID, prompt, req.FolderID, modelCfg, gen)
}

// DownloadImage streams the original image bytes from the blob store
func (s *imageService) DownloadImage(ctx context.Context, userID, imageID string) (io.ReadCloser, error) {
	img, err := s.imageRepo.GetByID(ctx, imageID, userID)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, img.StorageKey)
}

// prepareOwner makes sure the user row exists (first generation may
// arrive before any other write) and that the target folder, when
// given, belongs to the caller.
func (s *imageService) prepareOwner(ctx context.Context, user *models.AuthUser, folderID *string) error {
	u := &models.User{ID: user.ID, Email: user.Email}
	if user.FirstName != "" {
		u.FirstName = &user.FirstName
	}
	if user.LastName != "" {
		u.LastName = &user.LastName
	}
	if err := s.userRepo.Upsert(ctx, u); err != nil {
		return err
	}

	if folderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *folderID, user.ID); err != nil {
			return fmt.Errorf("target folder: %w", err)
		}
	}

	return nil
}

// persistImage uploads the image and its thumbnail, presigns their
// URLs, and inserts the row. The thumbnail is best effort: a resize
// failure loses the thumbnail, not the image.
func (s *imageService) persistImage(ctx context.Context, userID, prompt string, folderID *string, modelCfg provider.ModelConfig, gen *provider.GeneratedImage) (*models.ImageResponse, error) {
	id := uuid.NewString()
	key := storage.ImageKey(userID, id)

	if err := s.store.Put(ctx, key, gen.Data, "image/png"); err != nil {
		return nil, err
	}

	var thumbKey *string
	if thumb, err := utils.Thumbnail(gen.Data, utils.ThumbnailMaxDim); err != nil {
		s.logger.Warn("thumbnail generation failed", "image_id", id, "error", err)
	} else {
		tk := storage.ThumbnailKey(userID, id)
		if err := s.store.Put(ctx, tk, thumb, "image/jpeg"); err != nil {
			s.logger.Warn("thumbnail upload failed", "image_id", id, "error", err)
		} else {
			thumbKey = &tk
		}
	}

	expiry := time.Now().Add(s.presignExpiry)
	url, err := s.store.PresignedGetURL(ctx, key, s.presignExpiry)
	if err != nil {
		return nil, err
	}

	var thumbURL string
	if thumbKey != nil {
		thumbURL, err = s.store.PresignedGetURL(ctx, *thumbKey, s.presignExpiry)
		if err != nil {
			s.logger.Warn("presign thumbnail failed", "image_id", id, "error", err)
			thumbURL = ""
		}
	}

	img := &models.Image{
		ID:              id,
		UserID:          userID,
		FolderID:        folderID,
		Prompt:          prompt,
		StorageKey:      key,
		ThumbnailKey:    thumbKey,
		Width:           gen.Width,
		Height:          gen.Height,
		Model:           modelCfg.ID,
		Provider:        modelCfg.Provider,
		CachedURL:       &url,
		CachedURLExpiry: &expiry,
		CreatedAt:       time.Now(),
	}
	if thumbURL != "" {
		img.CachedThumbnailURL = &thumbURL
		img.CachedThumbnailURLExpiry = &expiry
	}

	if err := s.imageRepo.Create(ctx, img); err != nil {
		return nil, err
	}

	s.logger.Info("image created",
		"id", id,
		"user_id", userID,
		"model", modelCfg.ID,
		"provider", modelCfg.Provider,
		"folder_id", folderID,
	)

	resp := img.Response(url, thumbURL)
	return &resp, nil
}

// decodeSourceImage accepts raw base64 or a data URL and returns the
// decoded bytes.
func decodeSourceImage(src string) ([]byte, error) {
	if strings.HasPrefix(src, "data:") {
		idx := strings.Index(src, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data url")
		}
		src = src[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(src)
	if err != nil {
		return nil, fmt.Errorf("source image is not valid base64")
	}
	return data, nil
}
