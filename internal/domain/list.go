package domain

import (
	"time"

	"github.com/google/uuid"
)

// List is a shopping list. Exactly one owner at all times; the owner is
// implicitly a collaborator with every capability and never appears as a
// collaboration row.
type List struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:191;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	OwnerID     uuid.UUID `gorm:"type:char(36);index;not null" json:"ownerId"`

	IsArchived bool       `gorm:"not null;default:false" json:"isArchived"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	ArchivedBy *uuid.UUID `gorm:"type:char(36)" json:"archivedBy,omitempty"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`
	DeletedBy *uuid.UUID `gorm:"type:char(36)" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Archive stamps the archive fields. Unarchiving clears them.
func (l *List) Archive(by uuid.UUID, now time.Time) {
	l.IsArchived = true
	l.ArchivedAt = &now
	l.ArchivedBy = &by
}

func (l *List) Unarchive() {
	l.IsArchived = false
	l.ArchivedAt = nil
	l.ArchivedBy = nil
}

// SoftDelete marks the list deleted without removing the row.
func (l *List) SoftDelete(by uuid.UUID, now time.Time) {
	l.IsDeleted = true
	l.DeletedAt = &now
	l.DeletedBy = &by
}
