package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/realtime"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
)

// CollaborationService drives the invitation lifecycle: Pending rows are
// created by Invite, resolved by Accept/Decline, and Active rows end through
// Remove or Leave. Every successful transition that changes visible membership
// broadcasts to the list's subscriber group after the write has succeeded.
type CollaborationService struct {
	listRepo    repository.ListRepository
	collabRepo  repository.CollaborationRepository
	roleRepo    repository.RoleRepository
	userRepo    repository.UserRepository
	perms       *PermissionService
	broadcaster realtime.Broadcaster
	activity    ActivityRecorder
}

// NewCollaborationService creates a CollaborationService.
func NewCollaborationService(
	listRepo repository.ListRepository,
	collabRepo repository.CollaborationRepository,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	perms *PermissionService,
	broadcaster realtime.Broadcaster,
	activity ActivityRecorder,
) *CollaborationService {
	if listRepo == nil || collabRepo == nil || roleRepo == nil || userRepo == nil || perms == nil || broadcaster == nil {
		panic("CollaborationService requires non-nil dependencies")
	}
	if activity == nil {
		activity = NopRecorder{}
	}
	return &CollaborationService{
		listRepo:    listRepo,
		collabRepo:  collabRepo,
		roleRepo:    roleRepo,
		userRepo:    userRepo,
		perms:       perms,
		broadcaster: broadcaster,
		activity:    activity,
	}
}

// Invite creates a Pending collaboration for the user behind inviteeEmail.
// Owner-only; rejected when the target is the owner or any live row (pending
// or active) already exists for the pair.
func (s *CollaborationService) Invite(ctx context.Context, actorID, listID uuid.UUID, inviteeEmail string, roleID uuid.UUID) (*domain.Collaboration, error) {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actorID, "list_id": listID})

	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, mapRepoError(err, ErrListNotFound)
	}
	if list.OwnerID != actorID {
		return nil, ErrNotListOwner
	}

	invitee, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(inviteeEmail))
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	if invitee.ID == list.OwnerID {
		return nil, ErrSelfInvite
	}

	existing, err := s.collabRepo.FindByListAndUser(ctx, listID, invitee.ID)
	switch {
	case err == nil:
		if existing.Status() == domain.StatusPending {
			return nil, ErrInvitationPending
		}
		return nil, ErrAlreadyCollaborator
	case !errors.Is(err, repository.ErrNotFound):
		logCtx.WithError(err).Error("Invite: failed to check existing collaboration")
		return nil, ErrInternalServer
	}

	if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
		return nil, mapRepoError(err, ErrRoleNotFound)
	}

	invitation := domain.NewCollaboration(listID, invitee.ID, roleID, actorID, time.Now().UTC())
	if err := s.collabRepo.Save(ctx, invitation); err != nil {
		logCtx.WithError(err).Error("Invite: failed to save invitation")
		return nil, ErrInternalServer
	}

	// No broadcast: a pending invitee is not yet a member; they discover the
	// invitation on their next fetch.
	logCtx.WithFields(logrus.Fields{"invitee_id": invitee.ID, "invitation_id": invitation.ID}).Info("Invitation created")
	return invitation, nil
}

// Accept resolves the caller's own Pending invitation into an Active
// membership and announces the new collaborator to the list's group.
func (s *CollaborationService) Accept(ctx context.Context, actorID, invitationID uuid.UUID) error {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actorID, "invitation_id": invitationID})

	invitation, err := s.collabRepo.FindByID(ctx, invitationID)
	if err != nil {
		return mapRepoError(err, ErrInvitationNotFound)
	}
	if invitation.UserID != actorID {
		return ErrNotInvitee
	}
	now := time.Now().UTC()
	if err := invitation.Accept(now); err != nil {
		return ErrInvitationResolved
	}
	if err := s.collabRepo.Save(ctx, invitation); err != nil {
		logCtx.WithError(err).Error("Accept: failed to save invitation")
		return ErrInternalServer
	}

	roleName := ""
	if invitation.Role != nil {
		roleName = invitation.Role.Name
	}
	s.broadcaster.PublishToList(invitation.ListID, realtime.EventCollaboratorAdded, realtime.CollaboratorEvent{
		ListID:    invitation.ListID,
		UserID:    actorID,
		ActorID:   actorID,
		Role:      roleName,
		Timestamp: now,
	})
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: invitation.ListID, ActorID: actorID,
		Action: domain.ActivityCollaboratorJoined,
	})
	logCtx.WithField("list_id", invitation.ListID).Info("Invitation accepted")
	return nil
}

// Decline resolves the caller's own Pending invitation by soft-deleting it.
// No broadcast: a declined invitee was never visible to the group.
func (s *CollaborationService) Decline(ctx context.Context, actorID, invitationID uuid.UUID) error {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actorID, "invitation_id": invitationID})

	invitation, err := s.collabRepo.FindByID(ctx, invitationID)
	if err != nil {
		return mapRepoError(err, ErrInvitationNotFound)
	}
	if invitation.UserID != actorID {
		return ErrNotInvitee
	}
	if err := invitation.Decline(time.Now().UTC()); err != nil {
		return ErrInvitationResolved
	}
	if err := s.collabRepo.Save(ctx, invitation); err != nil {
		logCtx.WithError(err).Error("Decline: failed to save invitation")
		return ErrInternalServer
	}
	logCtx.WithField("list_id", invitation.ListID).Info("Invitation declined")
	return nil
}

// Remove ends an Active collaboration. Owner-only; the owner can never be the
// target because they hold no collaboration row.
func (s *CollaborationService) Remove(ctx context.Context, actorID, listID, collaboratorID uuid.UUID) error {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actorID, "list_id": listID, "collaborator_id": collaboratorID})

	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return mapRepoError(err, ErrListNotFound)
	}
	if list.OwnerID != actorID {
		return ErrNotListOwner
	}
	if collaboratorID == list.OwnerID {
		return ErrCannotRemoveOwner
	}
	return s.endMembership(ctx, logCtx, listID, collaboratorID, actorID, domain.ActivityCollaboratorLeft)
}

// Leave ends the caller's own Active collaboration. The owner cannot leave
// their own list.
func (s *CollaborationService) Leave(ctx context.Context, actorID, listID uuid.UUID) error {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actorID, "list_id": listID})

	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return mapRepoError(err, ErrListNotFound)
	}
	if list.OwnerID == actorID {
		return ErrOwnerCannotLeave
	}
	return s.endMembership(ctx, logCtx, listID, actorID, actorID, domain.ActivityCollaboratorLeft)
}

// endMembership soft-deletes an Active row and announces the departure.
func (s *CollaborationService) endMembership(ctx context.Context, logCtx *logrus.Entry, listID, userID, actorID uuid.UUID, verb string) error {
	collab, err := s.collabRepo.FindByListAndUser(ctx, listID, userID)
	if err != nil {
		return mapRepoError(err, ErrCollaboratorNotFound)
	}
	now := time.Now().UTC()
	if err := collab.Remove(actorID, now); err != nil {
		// Pending rows are not memberships; removing one is "not a collaborator".
		return ErrCollaboratorNotFound
	}
	if err := s.collabRepo.Save(ctx, collab); err != nil {
		logCtx.WithError(err).Error("Failed to save collaboration removal")
		return ErrInternalServer
	}

	s.broadcaster.PublishToList(listID, realtime.EventCollaboratorRemoved, realtime.CollaboratorEvent{
		ListID:    listID,
		UserID:    userID,
		ActorID:   actorID,
		Timestamp: now,
	})
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: listID, ActorID: actorID, Action: verb,
	})
	logCtx.Info("Collaboration ended")
	return nil
}

// ChangeRole assigns a new role to an Active, non-owner collaborator.
// Owner-only.
func (s *CollaborationService) ChangeRole(ctx context.Context, actorID, listID, collaboratorID, newRoleID uuid.UUID) error {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actorID, "list_id": listID, "collaborator_id": collaboratorID})

	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return mapRepoError(err, ErrListNotFound)
	}
	if list.OwnerID != actorID {
		return ErrNotListOwner
	}
	if collaboratorID == list.OwnerID {
		return ErrCannotChangeOwnerRole
	}

	role, err := s.roleRepo.FindByID(ctx, newRoleID)
	if err != nil {
		return mapRepoError(err, ErrRoleNotFound)
	}

	collab, err := s.collabRepo.FindByListAndUser(ctx, listID, collaboratorID)
	if err != nil {
		return mapRepoError(err, ErrCollaboratorNotFound)
	}
	if collab.Status() != domain.StatusActive {
		return ErrCollaboratorNotFound
	}

	collab.RoleID = newRoleID
	collab.Role = role
	if err := s.collabRepo.Save(ctx, collab); err != nil {
		logCtx.WithError(err).Error("ChangeRole: failed to save collaboration")
		return ErrInternalServer
	}

	now := time.Now().UTC()
	s.broadcaster.PublishToList(listID, realtime.EventCollaboratorPermissionChanged, realtime.CollaboratorEvent{
		ListID:    listID,
		UserID:    collaboratorID,
		ActorID:   actorID,
		Role:      role.Name,
		Timestamp: now,
	})
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: listID, ActorID: actorID,
		Action: domain.ActivityRoleChanged, Detail: role.Name,
	})
	logCtx.WithField("role", role.Name).Info("Collaborator role changed")
	return nil
}

// Collaborators returns the list's active collaborators; any member may look.
func (s *CollaborationService) Collaborators(ctx context.Context, actorID, listID uuid.UUID) ([]domain.Collaboration, error) {
	if !s.perms.CanAccess(ctx, actorID, listID) {
		return nil, ErrNoAccess
	}
	collabs, err := s.collabRepo.FindByList(ctx, listID)
	if err != nil {
		return nil, ErrInternalServer
	}
	return collabs, nil
}

// Invitations returns the caller's open invitations.
func (s *CollaborationService) Invitations(ctx context.Context, actorID uuid.UUID) ([]domain.Collaboration, error) {
	invitations, err := s.collabRepo.FindPendingForUser(ctx, actorID)
	if err != nil {
		return nil, ErrInternalServer
	}
	return invitations, nil
}

// mapRepoError translates a repository failure: not-found becomes the given
// business error, anything else is internal.
func mapRepoError(err error, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	logrus.WithError(err).Error("Unexpected repository error")
	return ErrInternalServer
}
