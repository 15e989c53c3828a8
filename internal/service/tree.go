package service

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"imagestudio/internal/domain/models"
	"imagestudio/internal/domain/repositories"
	"imagestudio/internal/domain/services"
)

// folderIndex maps folder IDs to their rows for ancestor walks.
// Built from a user's full flat folder list, so walks never touch
// storage and never cross users.
type folderIndex map[string]*models.Folder

func newFolderIndex(folders []models.Folder) folderIndex {
	idx := make(folderIndex, len(folders))
	for i := range folders {
		idx[folders[i].ID] = &folders[i]
	}
	return idx
}

// isDescendant reports whether candidateID is ancestorID itself or lies
// in ancestorID's subtree. Used to reject re-parenting that would
// create a cycle: a folder may not move under one of its descendants.
//
// The walk keeps a visited set so a previously-corrupted graph (a cycle
// that the forest invariant should have prevented) terminates instead
// of looping; such a walk reports "not a descendant".
func (idx folderIndex) isDescendant(ancestorID, candidateID string) bool {
	visited := make(map[string]bool)

	currentID := candidateID
	for {
		if currentID == ancestorID {
			return true
		}
		if visited[currentID] {
			return false
		}
		visited[currentID] = true

		current, ok := idx[currentID]
		if !ok || current.ParentID == nil {
			return false
		}
		currentID = *current.ParentID
	}
}

// BuildFolderTree converts a flat folder list into the nested forest
// rooted at parentID (nil = top level). Each node carries its direct
// image count (0 when absent from imageCounts); siblings are ordered by
// case-insensitive name. Pure: no side effects, deterministic output.
func BuildFolderTree(folders []models.Folder, imageCounts map[string]int, parentID *string) []*models.FolderTreeNode {
	cl := collate.New(language.Und, collate.IgnoreCase)
	return buildSubtree(folders, imageCounts, parentID, cl)
}

func buildSubtree(folders []models.Folder, imageCounts map[string]int, parentID *string, cl *collate.Collator) []*models.FolderTreeNode {
	nodes := make([]*models.FolderTreeNode, 0)

	for i := range folders {
		folder := &folders[i]
		if !sameParent(folder.ParentID, parentID) {
			continue
		}
		nodes = append(nodes, &models.FolderTreeNode{
			ID:         folder.ID,
			Name:       folder.Name,
			ParentID:   folder.ParentID,
			Color:      folder.Color,
			Icon:       folder.Icon,
			CreatedAt:  folder.CreatedAt,
			UpdatedAt:  folder.UpdatedAt,
			ImageCount: imageCounts[folder.ID],
			Children:   buildSubtree(folders, imageCounts, &folder.ID, cl),
		})
	}

	// Stable so equal names keep their input (creation) order.
	sort.SliceStable(nodes, func(i, j int) bool {
		return cl.CompareString(nodes[i].Name, nodes[j].Name) < 0
	})

	return nodes
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// treeService implements the TreeService interface
type treeService struct {
	folderRepo repositories.FolderRepository
	imageRepo  repositories.ImageRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	imageRepo repositories.ImageRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		imageRepo:  imageRepo,
		logger:     logger,
	}
}

// GetFolderTree builds the user's nested folder tree with image counts
func (s *treeService) GetFolderTree(ctx context.Context, userID string) (*models.FolderTree, error) {
	folders, err := s.folderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	imageCounts, err := s.imageRepo.CountByFolder(ctx, userID)
	if err != nil {
		return nil, err
	}

	rootImageCount, err := s.imageRepo.CountUncategorized(ctx, userID)
	if err != nil {
		return nil, err
	}

	tree := &models.FolderTree{
		Folders:        BuildFolderTree(folders, imageCounts, nil),
		RootImageCount: rootImageCount,
	}

	s.logger.Debug("folder tree built",
		"user_id", userID,
		"folder_count", len(folders),
		"root_image_count", rootImageCount,
	)

	return tree, nil
}
