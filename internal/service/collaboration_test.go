package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/realtime"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
	"github.com/rkSlalom/ae-infinity-api/internal/repository/mocks"
	"github.com/rkSlalom/ae-infinity-api/internal/service"
)

type collabFixture struct {
	listRepo    *mocks.ListRepository
	collabRepo  *mocks.CollaborationRepository
	roleRepo    *mocks.RoleRepository
	userRepo    *mocks.UserRepository
	broadcaster *fakeBroadcaster
	svc         *service.CollaborationService
}

func newCollabFixture() *collabFixture {
	f := &collabFixture{
		listRepo:    new(mocks.ListRepository),
		collabRepo:  new(mocks.CollaborationRepository),
		roleRepo:    new(mocks.RoleRepository),
		userRepo:    new(mocks.UserRepository),
		broadcaster: &fakeBroadcaster{},
	}
	perms := service.NewPermissionService(f.listRepo, f.collabRepo, f.roleRepo)
	f.svc = service.NewCollaborationService(f.listRepo, f.collabRepo, f.roleRepo, f.userRepo, perms, f.broadcaster, nil)
	return f
}

func TestCollaborationService_Invite_Success(t *testing.T) {
	f := newCollabFixture()
	ownerID := uuid.New()
	listID := uuid.New()
	role := editorRole()
	invitee := &domain.User{ID: uuid.New(), Email: "friend@example.com"}

	// The repository matches on the normalized column only.
	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
	f.userRepo.On("FindByEmail", mock.Anything, "FRIEND@EXAMPLE.COM").Return(invitee, nil)
	f.collabRepo.On("FindByListAndUser", mock.Anything, listID, invitee.ID).Return(nil, repository.ErrNotFound)
	f.roleRepo.On("FindByID", mock.Anything, role.ID).Return(role, nil)
	f.collabRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Collaboration")).Return(nil)

	invitation, err := f.svc.Invite(context.Background(), ownerID, listID, "friend@example.com", role.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, invitation.Status())
	assert.Equal(t, invitee.ID, invitation.UserID)
	assert.Equal(t, ownerID, invitation.InvitedBy)
	// A pending invitee is not a member yet; nothing goes out on the wire.
	assert.Empty(t, f.broadcaster.published())
	f.collabRepo.AssertExpectations(t)
}

func TestCollaborationService_Invite_NormalizesInviteeEmail(t *testing.T) {
	f := newCollabFixture()
	ownerID := uuid.New()
	listID := uuid.New()
	role := editorRole()
	invitee := &domain.User{ID: uuid.New(), Email: "friend@example.com"}

	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
	// Mirror the stored contract: only the normalized form resolves, any other
	// spelling is unknown.
	f.userRepo.On("FindByEmail", mock.Anything, "FRIEND@EXAMPLE.COM").Return(invitee, nil)
	f.userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)
	f.collabRepo.On("FindByListAndUser", mock.Anything, listID, invitee.ID).Return(nil, repository.ErrNotFound)
	f.roleRepo.On("FindByID", mock.Anything, role.ID).Return(role, nil)
	f.collabRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Collaboration")).Return(nil)

	invitation, err := f.svc.Invite(context.Background(), ownerID, listID, " Friend@Example.com ", role.ID)

	require.NoError(t, err)
	assert.Equal(t, invitee.ID, invitation.UserID)
}

func TestCollaborationService_Invite_OwnerOnly(t *testing.T) {
	f := newCollabFixture()
	listID := uuid.New()
	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: uuid.New()}, nil)

	_, err := f.svc.Invite(context.Background(), uuid.New(), listID, "friend@example.com", uuid.New())

	assert.ErrorIs(t, err, service.ErrNotListOwner)
	f.userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestCollaborationService_Invite_SelfInvite(t *testing.T) {
	f := newCollabFixture()
	ownerID := uuid.New()
	listID := uuid.New()
	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
	f.userRepo.On("FindByEmail", mock.Anything, "ME@EXAMPLE.COM").Return(&domain.User{ID: ownerID}, nil)

	_, err := f.svc.Invite(context.Background(), ownerID, listID, "me@example.com", uuid.New())

	assert.ErrorIs(t, err, service.ErrSelfInvite)
}

func TestCollaborationService_Invite_ExistingRows(t *testing.T) {
	ownerID := uuid.New()
	listID := uuid.New()
	invitee := &domain.User{ID: uuid.New(), Email: "friend@example.com"}

	t.Run("pending invitation already open", func(t *testing.T) {
		f := newCollabFixture()
		pending := domain.NewCollaboration(listID, invitee.ID, uuid.New(), ownerID, time.Now())
		f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
		f.userRepo.On("FindByEmail", mock.Anything, service.NormalizeEmail(invitee.Email)).Return(invitee, nil)
		f.collabRepo.On("FindByListAndUser", mock.Anything, listID, invitee.ID).Return(pending, nil)

		_, err := f.svc.Invite(context.Background(), ownerID, listID, invitee.Email, uuid.New())
		assert.ErrorIs(t, err, service.ErrInvitationPending)
	})

	t.Run("already an active collaborator", func(t *testing.T) {
		f := newCollabFixture()
		active := activeCollab(listID, invitee.ID, viewerRole())
		f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
		f.userRepo.On("FindByEmail", mock.Anything, service.NormalizeEmail(invitee.Email)).Return(invitee, nil)
		f.collabRepo.On("FindByListAndUser", mock.Anything, listID, invitee.ID).Return(active, nil)

		_, err := f.svc.Invite(context.Background(), ownerID, listID, invitee.Email, uuid.New())
		assert.ErrorIs(t, err, service.ErrAlreadyCollaborator)
	})
}

func TestCollaborationService_Invite_UnknownRole(t *testing.T) {
	f := newCollabFixture()
	ownerID := uuid.New()
	listID := uuid.New()
	roleID := uuid.New()
	invitee := &domain.User{ID: uuid.New(), Email: "friend@example.com"}

	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
	f.userRepo.On("FindByEmail", mock.Anything, service.NormalizeEmail(invitee.Email)).Return(invitee, nil)
	f.collabRepo.On("FindByListAndUser", mock.Anything, listID, invitee.ID).Return(nil, repository.ErrNotFound)
	f.roleRepo.On("FindByID", mock.Anything, roleID).Return(nil, repository.ErrNotFound)

	_, err := f.svc.Invite(context.Background(), ownerID, listID, invitee.Email, roleID)

	assert.ErrorIs(t, err, service.ErrRoleNotFound)
	f.collabRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCollaborationService_Accept_Success(t *testing.T) {
	f := newCollabFixture()
	inviteeID := uuid.New()
	listID := uuid.New()
	role := editorRole()
	invitation := domain.NewCollaboration(listID, inviteeID, role.ID, uuid.New(), time.Now())
	invitation.Role = role

	f.collabRepo.On("FindByID", mock.Anything, invitation.ID).Return(invitation, nil)
	f.collabRepo.On("Save", mock.Anything, invitation).Return(nil)

	err := f.svc.Accept(context.Background(), inviteeID, invitation.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, invitation.Status())

	events := f.broadcaster.published()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventCollaboratorAdded, events[0].Event)
	assert.Equal(t, listID, events[0].ListID)
	payload := events[0].Payload.(realtime.CollaboratorEvent)
	assert.Equal(t, inviteeID, payload.UserID)
	assert.Equal(t, domain.RoleEditor, payload.Role)
}

func TestCollaborationService_Accept_WrongUser(t *testing.T) {
	f := newCollabFixture()
	invitation := domain.NewCollaboration(uuid.New(), uuid.New(), uuid.New(), uuid.New(), time.Now())
	f.collabRepo.On("FindByID", mock.Anything, invitation.ID).Return(invitation, nil)

	err := f.svc.Accept(context.Background(), uuid.New(), invitation.ID)

	assert.ErrorIs(t, err, service.ErrNotInvitee)
	f.collabRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCollaborationService_Accept_AlreadyResolved(t *testing.T) {
	f := newCollabFixture()
	inviteeID := uuid.New()
	invitation := activeCollab(uuid.New(), inviteeID, viewerRole())
	f.collabRepo.On("FindByID", mock.Anything, invitation.ID).Return(invitation, nil)

	err := f.svc.Accept(context.Background(), inviteeID, invitation.ID)

	assert.ErrorIs(t, err, service.ErrInvitationResolved)
	assert.Empty(t, f.broadcaster.published())
}

func TestCollaborationService_Decline(t *testing.T) {
	f := newCollabFixture()
	inviteeID := uuid.New()
	invitation := domain.NewCollaboration(uuid.New(), inviteeID, uuid.New(), uuid.New(), time.Now())

	f.collabRepo.On("FindByID", mock.Anything, invitation.ID).Return(invitation, nil)
	f.collabRepo.On("Save", mock.Anything, invitation).Return(nil)

	err := f.svc.Decline(context.Background(), inviteeID, invitation.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeclined, invitation.Status())
	assert.Equal(t, inviteeID, *invitation.DeletedBy)
	// Declines stay private; the group never saw the invitee.
	assert.Empty(t, f.broadcaster.published())
}

func TestCollaborationService_Decline_NotFound(t *testing.T) {
	f := newCollabFixture()
	f.collabRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)

	err := f.svc.Decline(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, service.ErrInvitationNotFound)
}

func TestCollaborationService_Remove_Success(t *testing.T) {
	f := newCollabFixture()
	ownerID := uuid.New()
	listID := uuid.New()
	collab := activeCollab(listID, uuid.New(), editorRole())

	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
	f.collabRepo.On("FindByListAndUser", mock.Anything, listID, collab.UserID).Return(collab, nil)
	f.collabRepo.On("Save", mock.Anything, collab).Return(nil)

	err := f.svc.Remove(context.Background(), ownerID, listID, collab.UserID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusRemoved, collab.Status())
	assert.Equal(t, ownerID, *collab.DeletedBy)

	events := f.broadcaster.published()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventCollaboratorRemoved, events[0].Event)
	payload := events[0].Payload.(realtime.CollaboratorEvent)
	assert.Equal(t, collab.UserID, payload.UserID)
	assert.Equal(t, ownerID, payload.ActorID)
}

func TestCollaborationService_Remove_OwnerTarget(t *testing.T) {
	f := newCollabFixture()
	ownerID := uuid.New()
	listID := uuid.New()
	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)

	err := f.svc.Remove(context.Background(), ownerID, listID, ownerID)

	assert.ErrorIs(t, err, service.ErrCannotRemoveOwner)
}

func TestCollaborationService_Remove_PendingIsNotMember(t *testing.T) {
	f := newCollabFixture()
	ownerID := uuid.New()
	listID := uuid.New()
	pending := domain.NewCollaboration(listID, uuid.New(), uuid.New(), ownerID, time.Now())

	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
	f.collabRepo.On("FindByListAndUser", mock.Anything, listID, pending.UserID).Return(pending, nil)

	err := f.svc.Remove(context.Background(), ownerID, listID, pending.UserID)

	assert.ErrorIs(t, err, service.ErrCollaboratorNotFound)
	f.collabRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCollaborationService_Leave(t *testing.T) {
	ownerID := uuid.New()
	listID := uuid.New()

	t.Run("collaborator leaves", func(t *testing.T) {
		f := newCollabFixture()
		collab := activeCollab(listID, uuid.New(), viewerRole())
		f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
		f.collabRepo.On("FindByListAndUser", mock.Anything, listID, collab.UserID).Return(collab, nil)
		f.collabRepo.On("Save", mock.Anything, collab).Return(nil)

		err := f.svc.Leave(context.Background(), collab.UserID, listID)

		require.NoError(t, err)
		assert.Equal(t, collab.UserID, *collab.DeletedBy)
		events := f.broadcaster.published()
		require.Len(t, events, 1)
		assert.Equal(t, realtime.EventCollaboratorRemoved, events[0].Event)
	})

	t.Run("owner cannot leave", func(t *testing.T) {
		f := newCollabFixture()
		f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)

		err := f.svc.Leave(context.Background(), ownerID, listID)

		assert.ErrorIs(t, err, service.ErrOwnerCannotLeave)
	})
}

func TestCollaborationService_ChangeRole(t *testing.T) {
	f := newCollabFixture()
	ownerID := uuid.New()
	listID := uuid.New()
	newRole := viewerRole()
	collab := activeCollab(listID, uuid.New(), editorRole())

	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
	f.roleRepo.On("FindByID", mock.Anything, newRole.ID).Return(newRole, nil)
	f.collabRepo.On("FindByListAndUser", mock.Anything, listID, collab.UserID).Return(collab, nil)
	f.collabRepo.On("Save", mock.Anything, collab).Return(nil)

	err := f.svc.ChangeRole(context.Background(), ownerID, listID, collab.UserID, newRole.ID)

	require.NoError(t, err)
	assert.Equal(t, newRole.ID, collab.RoleID)

	events := f.broadcaster.published()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventCollaboratorPermissionChanged, events[0].Event)
	payload := events[0].Payload.(realtime.CollaboratorEvent)
	assert.Equal(t, domain.RoleViewer, payload.Role)
}

func TestCollaborationService_ChangeRole_Guards(t *testing.T) {
	ownerID := uuid.New()
	listID := uuid.New()

	t.Run("owner role is fixed", func(t *testing.T) {
		f := newCollabFixture()
		f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)

		err := f.svc.ChangeRole(context.Background(), ownerID, listID, ownerID, uuid.New())
		assert.ErrorIs(t, err, service.ErrCannotChangeOwnerRole)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		f := newCollabFixture()
		f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)

		err := f.svc.ChangeRole(context.Background(), uuid.New(), listID, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, service.ErrNotListOwner)
	})

	t.Run("pending target is not a collaborator", func(t *testing.T) {
		f := newCollabFixture()
		role := viewerRole()
		pending := domain.NewCollaboration(listID, uuid.New(), uuid.New(), ownerID, time.Now())
		f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
		f.roleRepo.On("FindByID", mock.Anything, role.ID).Return(role, nil)
		f.collabRepo.On("FindByListAndUser", mock.Anything, listID, pending.UserID).Return(pending, nil)

		err := f.svc.ChangeRole(context.Background(), ownerID, listID, pending.UserID, role.ID)
		assert.ErrorIs(t, err, service.ErrCollaboratorNotFound)
	})
}

func TestCollaborationService_Collaborators_AccessGated(t *testing.T) {
	f := newCollabFixture()
	listID := uuid.New()
	strangerID := uuid.New()

	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: uuid.New()}, nil)
	f.collabRepo.On("FindByListAndUser", mock.Anything, listID, strangerID).Return(nil, repository.ErrNotFound)

	_, err := f.svc.Collaborators(context.Background(), strangerID, listID)

	assert.ErrorIs(t, err, service.ErrNoAccess)
	f.collabRepo.AssertNotCalled(t, "FindByList", mock.Anything, mock.Anything)
}

func TestCollaborationService_Invitations(t *testing.T) {
	f := newCollabFixture()
	userID := uuid.New()
	pending := []domain.Collaboration{
		*domain.NewCollaboration(uuid.New(), userID, uuid.New(), uuid.New(), time.Now()),
	}
	f.collabRepo.On("FindPendingForUser", mock.Anything, userID).Return(pending, nil)

	got, err := f.svc.Invitations(context.Background(), userID)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}
