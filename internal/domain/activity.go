package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity verbs recorded in the per-list feed.
const (
	ActivityListCreated        = "list.created"
	ActivityListUpdated        = "list.updated"
	ActivityListArchived       = "list.archived"
	ActivityListUnarchived     = "list.unarchived"
	ActivityListDeleted        = "list.deleted"
	ActivityItemAdded          = "item.added"
	ActivityItemUpdated        = "item.updated"
	ActivityItemDeleted        = "item.deleted"
	ActivityItemPurchased      = "item.purchased"
	ActivityItemUnpurchased    = "item.unpurchased"
	ActivityItemsReordered     = "items.reordered"
	ActivityCollaboratorJoined = "collaborator.joined"
	ActivityCollaboratorLeft   = "collaborator.left"
	ActivityRoleChanged        = "collaborator.role_changed"
)

// ListActivity is one entry in a list's activity feed. Rows are written by the
// background worker, never on the request path.
type ListActivity struct {
	ID      uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	ListID  uuid.UUID  `gorm:"type:char(36);index;not null" json:"listId"`
	ActorID uuid.UUID  `gorm:"type:char(36);not null" json:"actorId"`
	ItemID  *uuid.UUID `gorm:"type:char(36)" json:"itemId,omitempty"`
	Action  string     `gorm:"size:64;not null" json:"action"`
	Detail  string     `gorm:"size:500" json:"detail,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}
