package models

import "time"

// Display defaults applied when a folder is created without explicit
// color/icon and when formatting rows persisted before these columns
// had defaults.
const (
	DefaultFolderColor = "#6366f1"
	DefaultFolderIcon  = "folder"
)

type Folder struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	ParentID  *string   `json:"parentId" db:"parent_id"` // NULL = root level
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	Icon      string    `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// FolderTreeNode is a folder in the nested response tree, carrying its
// direct image count and children ordered by name.
type FolderTreeNode struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	ParentID   *string           `json:"parentId"`
	Color      string            `json:"color"`
	Icon       string            `json:"icon"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	ImageCount int               `json:"imageCount"`
	Children   []*FolderTreeNode `json:"children"`
}

// FolderTree is the full per-user forest. Uncategorized images are
// counted separately, not embedded as a node.
type FolderTree struct {
	Folders        []*FolderTreeNode `json:"folders"`
	RootImageCount int               `json:"rootImageCount"`
}
