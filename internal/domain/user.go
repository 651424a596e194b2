package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can own lists and collaborate on others.
type User struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Username        string    `gorm:"uniqueIndex;size:191;not null" json:"username"`
	Email           string    `gorm:"size:191;not null" json:"email"`
	EmailNormalized string    `gorm:"uniqueIndex;size:191;not null" json:"-"`
	Password        string    `gorm:"not null" json:"-"`
	DisplayName     string    `gorm:"size:191" json:"displayName"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
