package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"imagestudio/internal/config"
	"imagestudio/internal/domain"
	"imagestudio/internal/domain/models"
	"imagestudio/internal/domain/repositories"
	"imagestudio/internal/domain/services"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type folderService struct {
	folderRepo repositories.FolderRepository
	imageRepo  repositories.ImageRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	imageRepo repositories.ImageRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		imageRepo:  imageRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFolder creates a new folder, optionally under a parent
func (s *folderService) CreateFolder(ctx context.Context, userID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	// Trim before validating so a whitespace-only name fails Required
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	// Parent must exist and belong to the caller
	if req.ParentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentID, userID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	now := time.Now()
	folder := &models.Folder{
		UserID:    userID,
		ParentID:  req.ParentID,
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if folder.Color == "" {
		folder.Color = models.DefaultFolderColor
	}
	if folder.Icon == "" {
		folder.Icon = models.DefaultFolderIcon
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", userID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves a single folder
func (s *folderService) GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, folderID, userID)
}

// UpdateFolder renames, recolors or re-parents a folder
func (s *folderService) UpdateFolder(ctx context.Context, userID, folderID string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = *req.Name
	}
	if req.Color != nil {
		folder.Color = *req.Color
	}
	if req.Icon != nil {
		folder.Icon = *req.Icon
	}

	// Tri-state: only touch the parent if the field was present
	if req.ParentID.Present {
		if req.ParentID.Value != nil {
			newParentID := *req.ParentID.Value

			// Explicit self-parent guard, rejected before any walking
			if newParentID == folderID {
				return nil, fmt.Errorf("%w: cannot set folder as its own parent", domain.ErrValidation)
			}

			if _, err := s.folderRepo.GetByID(ctx, newParentID, userID); err != nil {
				return nil, fmt.Errorf("parent folder: %w", err)
			}

			// Re-parenting under a descendant would create a cycle.
			// The check runs against the current flat list, so a racing
			// mutation is caught here rather than serialized away.
			all, err := s.folderRepo.ListByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			if newFolderIndex(all).isDescendant(folderID, newParentID) {
				return nil, fmt.Errorf("%w: cannot move folder into its own subfolder", domain.ErrValidation)
			}

			folder.ParentID = &newParentID
			s.logger.Debug("moving folder to new parent",
				"folder_id", folderID,
				"parent_id", newParentID,
			)
		} else {
			// null = move to root
			folder.ParentID = nil
			s.logger.Debug("moving folder to root", "folder_id", folderID)
		}
	}

	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// DeleteFolder deletes a folder, promoting its contents one level: images
// and child folders are re-pointed at the folder's own parent (possibly
// root), never deleted. The three steps commit atomically.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.imageRepo.ReassignFolder(txCtx, userID, folderID, folder.ParentID); err != nil {
			return err
		}
		if err := s.folderRepo.ReassignChildren(txCtx, folderID, folder.ParentID, userID); err != nil {
			return err
		}
		return s.folderRepo.Delete(txCtx, folderID, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"name", folder.Name,
		"user_id", userID,
		"promoted_to", folder.ParentID,
	)

	return nil
}

// validateCreateRequest validates a folder creation request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
		),
		validation.Field(&req.Color,
			validation.Match(hexColorPattern).Error("must be a hex color like #6366f1"),
		),
		validation.Field(&req.Icon,
			validation.Length(0, config.MaxFolderIconLength),
		),
	)
}

// validateUpdateRequest validates a folder update request
func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	// At least one field must be provided
	if req.Name == nil && !req.ParentID.Present && req.Color == nil && req.Icon == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	var rules []*validation.FieldRules

	if req.Name != nil {
		rules = append(rules,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, config.MaxFolderNameLength),
			),
		)
	}
	if req.Color != nil {
		rules = append(rules,
			validation.Field(&req.Color,
				validation.Match(hexColorPattern).Error("must be a hex color like #6366f1"),
			),
		)
	}
	if req.Icon != nil {
		rules = append(rules,
			validation.Field(&req.Icon,
				validation.Length(0, config.MaxFolderIconLength),
			),
		)
	}

	return validation.ValidateStruct(req, rules...)
}
