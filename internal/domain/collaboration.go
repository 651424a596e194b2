package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrIllegalTransition is returned when a collaboration transition is attempted
// from a state that does not permit it.
var ErrIllegalTransition = errors.New("collaboration: illegal status transition")

// CollaborationStatus is the explicit lifecycle state of a collaboration row.
// Pending is the only initial state; Active, Declined and Removed are terminal
// for the row (re-inviting requires a fresh row).
type CollaborationStatus int

const (
	StatusPending CollaborationStatus = iota
	StatusActive
	StatusDeclined
	StatusRemoved
)

func (s CollaborationStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusDeclined:
		return "declined"
	case StatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Collaboration is the join record granting a non-owner user a role on a list.
// The persisted encoding is the IsPending/IsDeleted column pair; Status derives
// the variant and the transition methods are the only legal way to mutate it.
type Collaboration struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ListID    uuid.UUID `gorm:"type:char(36);index:idx_collab_list_user;not null" json:"listId"`
	UserID    uuid.UUID `gorm:"type:char(36);index:idx_collab_list_user;not null" json:"userId"`
	RoleID    uuid.UUID `gorm:"type:char(36);not null" json:"roleId"`
	InvitedBy uuid.UUID `gorm:"type:char(36);not null" json:"invitedBy"`
	InvitedAt time.Time `gorm:"not null" json:"invitedAt"`

	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
	IsPending  bool       `gorm:"not null;default:true" json:"isPending"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`
	DeletedBy *uuid.UUID `gorm:"type:char(36)" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// NewCollaboration creates a Pending invitation row.
func NewCollaboration(listID, userID, roleID, invitedBy uuid.UUID, now time.Time) *Collaboration {
	return &Collaboration{
		ID:        uuid.New(),
		ListID:    listID,
		UserID:    userID,
		RoleID:    roleID,
		InvitedBy: invitedBy,
		InvitedAt: now,
		IsPending: true,
	}
}

// Status derives the explicit variant from the persisted booleans.
func (c *Collaboration) Status() CollaborationStatus {
	switch {
	case c.IsDeleted && c.AcceptedAt == nil:
		return StatusDeclined
	case c.IsDeleted:
		return StatusRemoved
	case c.IsPending:
		return StatusPending
	default:
		return StatusActive
	}
}

// Accept transitions Pending -> Active. Only the invited user may accept; that
// guard belongs to the caller, this method guards the state machine only.
func (c *Collaboration) Accept(now time.Time) error {
	if c.Status() != StatusPending {
		return ErrIllegalTransition
	}
	c.IsPending = false
	c.AcceptedAt = &now
	return nil
}

// Decline transitions Pending -> Declined via soft delete. IsPending is cleared
// so the pending and deleted flags never assert together.
func (c *Collaboration) Decline(now time.Time) error {
	if c.Status() != StatusPending {
		return ErrIllegalTransition
	}
	c.IsPending = false
	c.IsDeleted = true
	c.DeletedAt = &now
	by := c.UserID
	c.DeletedBy = &by
	return nil
}

// Remove transitions Active -> Removed via soft delete. Used both for the owner
// removing a collaborator and a collaborator leaving.
func (c *Collaboration) Remove(by uuid.UUID, now time.Time) error {
	if c.Status() != StatusActive {
		return ErrIllegalTransition
	}
	c.IsDeleted = true
	c.DeletedAt = &now
	c.DeletedBy = &by
	return nil
}
