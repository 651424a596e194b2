package domain

import (
	"time"

	"github.com/google/uuid"
)

// ListItem is a single entry on a shopping list. Position is a 0-based ordering
// key; positions in a list form a dense sequence after a reorder, gaps between
// operations are tolerated.
type ListItem struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	ListID     uuid.UUID  `gorm:"type:char(36);index;not null" json:"listId"`
	CategoryID *uuid.UUID `gorm:"type:char(36)" json:"categoryId,omitempty"`

	Name     string  `gorm:"size:191;not null" json:"name"`
	Quantity float64 `gorm:"not null;default:1" json:"quantity"`
	Unit     string  `gorm:"size:32" json:"unit,omitempty"`
	Notes    string  `gorm:"size:500" json:"notes,omitempty"`
	Position int     `gorm:"not null;default:0" json:"position"`

	IsPurchased bool       `gorm:"not null;default:false" json:"isPurchased"`
	PurchasedAt *time.Time `json:"purchasedAt,omitempty"`
	PurchasedBy *uuid.UUID `gorm:"type:char(36)" json:"purchasedBy,omitempty"`

	CreatedBy uuid.UUID  `gorm:"type:char(36);not null" json:"createdBy"`
	UpdatedBy *uuid.UUID `gorm:"type:char(36)" json:"updatedBy,omitempty"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`
	DeletedBy *uuid.UUID `gorm:"type:char(36)" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// MarkPurchased stamps the purchase fields; already-purchased is the caller's
// conflict to detect.
func (i *ListItem) MarkPurchased(by uuid.UUID, now time.Time) {
	i.IsPurchased = true
	i.PurchasedAt = &now
	i.PurchasedBy = &by
}

func (i *ListItem) MarkUnpurchased() {
	i.IsPurchased = false
	i.PurchasedAt = nil
	i.PurchasedBy = nil
}

// SoftDelete marks the item deleted without removing the row.
func (i *ListItem) SoftDelete(by uuid.UUID, now time.Time) {
	i.IsDeleted = true
	i.DeletedAt = &now
	i.DeletedBy = &by
}
