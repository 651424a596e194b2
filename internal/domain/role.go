package domain

import (
	"time"

	"github.com/google/uuid"
)

// Well-known role names. Roles are reference data seeded at migration time;
// "Owner" is never stored on a collaboration row, it is implied by List.OwnerID.
const (
	RoleOwner         = "Owner"
	RoleEditor        = "Editor"
	RoleEditorLimited = "Editor-Limited"
	RoleViewer        = "Viewer"
)

// Role bundles the capability flags granted to a collaborator.
type Role struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`

	// Item capabilities.
	CanCreateItems     bool `json:"canCreateItems"`
	CanEditItems       bool `json:"canEditItems"`
	CanDeleteItems     bool `json:"canDeleteItems"`
	CanEditOwnItemsOnly bool `json:"canEditOwnItemsOnly"`
	CanMarkPurchased   bool `json:"canMarkPurchased"`

	// List capabilities.
	CanEditListDetails     bool `json:"canEditListDetails"`
	CanManageCollaborators bool `json:"canManageCollaborators"`
	CanDeleteList          bool `json:"canDeleteList"`
	CanArchiveList         bool `json:"canArchiveList"`

	PriorityOrder int       `json:"priorityOrder"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
