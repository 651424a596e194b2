package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
)

// PermissionService resolves what a user may do on a list. It is pure read
// logic over persisted ownership and role records: every check loads fresh
// state, nothing is cached here.
//
// None of the methods return an error. "No access" is a normal outcome every
// caller uses to decide whether to raise a forbidden condition, so failures to
// read are logged and answered with a denial rather than propagated.
type PermissionService struct {
	listRepo   repository.ListRepository
	collabRepo repository.CollaborationRepository
	roleRepo   repository.RoleRepository
}

// NewPermissionService creates a PermissionService.
func NewPermissionService(listRepo repository.ListRepository, collabRepo repository.CollaborationRepository, roleRepo repository.RoleRepository) *PermissionService {
	if listRepo == nil || collabRepo == nil || roleRepo == nil {
		panic("PermissionService requires non-nil repositories")
	}
	return &PermissionService{listRepo: listRepo, collabRepo: collabRepo, roleRepo: roleRepo}
}

// CanAccess reports whether the user is the owner or holds an active
// (accepted, non-deleted) collaboration on the list.
func (s *PermissionService) CanAccess(ctx context.Context, userID, listID uuid.UUID) bool {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		s.deny(err, userID, listID, "CanAccess")
		return false
	}
	if list.OwnerID == userID {
		return true
	}
	collab, err := s.collabRepo.FindByListAndUser(ctx, listID, userID)
	if err != nil {
		s.deny(err, userID, listID, "CanAccess")
		return false
	}
	return collab.Status() == domain.StatusActive
}

// CanEdit reports whether the user may edit the list's details. Owner-only.
func (s *PermissionService) CanEdit(ctx context.Context, userID, listID uuid.UUID) bool {
	return s.IsOwner(ctx, userID, listID)
}

// CanDelete reports whether the user may delete the list. Owner-only.
func (s *PermissionService) CanDelete(ctx context.Context, userID, listID uuid.UUID) bool {
	return s.IsOwner(ctx, userID, listID)
}

// CanArchive reports whether the user may archive or unarchive the list.
// Owner-only.
func (s *PermissionService) CanArchive(ctx context.Context, userID, listID uuid.UUID) bool {
	return s.IsOwner(ctx, userID, listID)
}

// IsOwner reports whether the user owns the list.
func (s *PermissionService) IsOwner(ctx context.Context, userID, listID uuid.UUID) bool {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		s.deny(err, userID, listID, "IsOwner")
		return false
	}
	return list.OwnerID == userID
}

// RoleOf returns the user's effective role name on the list: "Owner" for the
// owner, the collaboration's role name for an active collaborator, and ""
// when the user has no access (including a still-pending invitation).
func (s *PermissionService) RoleOf(ctx context.Context, userID, listID uuid.UUID) string {
	role := s.EffectiveRole(ctx, userID, listID)
	if role == nil {
		return ""
	}
	return role.Name
}

// EffectiveRole returns the full capability set the user holds on the list, or
// nil when the user has no access. The owner resolves to the seeded "Owner"
// role, which carries every capability.
func (s *PermissionService) EffectiveRole(ctx context.Context, userID, listID uuid.UUID) *domain.Role {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		s.deny(err, userID, listID, "EffectiveRole")
		return nil
	}
	if list.OwnerID == userID {
		role, err := s.roleRepo.FindByName(ctx, domain.RoleOwner)
		if err != nil {
			s.deny(err, userID, listID, "EffectiveRole")
			return nil
		}
		return role
	}
	collab, err := s.collabRepo.FindByListAndUser(ctx, listID, userID)
	if err != nil {
		s.deny(err, userID, listID, "EffectiveRole")
		return nil
	}
	if collab.Status() != domain.StatusActive || collab.Role == nil {
		return nil
	}
	return collab.Role
}

// deny logs unexpected read failures; a plain not-found is the normal
// "no access" answer and stays quiet.
func (s *PermissionService) deny(err error, userID, listID uuid.UUID, op string) {
	if errors.Is(err, repository.ErrNotFound) {
		return
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"list_id": listID,
		"op":      op,
	}).WithError(err).Warn("Permission check failed to read state, denying")
}
