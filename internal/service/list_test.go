package service_test

import (
	"context"
	"testing"

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

type listFixture struct {
	listRepo    *mocks.ListRepository
	collabRepo  *mocks.CollaborationRepository
	roleRepo    *mocks.RoleRepository
	broadcaster *fakeBroadcaster
	svc         *service.ListService
}

func newListFixture() *listFixture {
	f := &listFixture{
		listRepo:    new(mocks.ListRepository),
		collabRepo:  new(mocks.CollaborationRepository),
		roleRepo:    new(mocks.RoleRepository),
		broadcaster: &fakeBroadcaster{},
	}
	perms := service.NewPermissionService(f.listRepo, f.collabRepo, f.roleRepo)
	f.svc = service.NewListService(f.listRepo, perms, f.broadcaster, nil)
	return f
}

func TestListService_Create(t *testing.T) {
	f := newListFixture()
	ownerID := uuid.New()
	f.listRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.List")).Return(nil)

	list, err := f.svc.Create(context.Background(), ownerID, "Groceries", "Weekly run")

	require.NoError(t, err)
	assert.Equal(t, "Groceries", list.Name)
	assert.Equal(t, ownerID, list.OwnerID)

	events := f.broadcaster.published()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventListCreated, events[0].Event)
	assert.Equal(t, uuid.Nil, events[0].ListID) // broadcast to all, not list-scoped
}

func TestListService_Update_OwnerOnly(t *testing.T) {
	f := newListFixture()
	listID := uuid.New()
	ownerID := uuid.New()
	collab := activeCollab(listID, uuid.New(), editorRole())
	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID, Name: "Old"}, nil)

	_, err := f.svc.Update(context.Background(), collab.UserID, listID, "New", "")

	assert.ErrorIs(t, err, service.ErrNotListOwner)
	f.listRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestListService_Update_Success(t *testing.T) {
	f := newListFixture()
	listID := uuid.New()
	ownerID := uuid.New()
	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID, Name: "Old"}, nil)
	f.listRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.List")).Return(nil)

	list, err := f.svc.Update(context.Background(), ownerID, listID, "New", "desc")

	require.NoError(t, err)
	assert.Equal(t, "New", list.Name)
	assert.Equal(t, "desc", list.Description)

	events := f.broadcaster.published()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventListUpdated, events[0].Event)
}

func TestListService_SetArchived(t *testing.T) {
	f := newListFixture()
	listID := uuid.New()
	ownerID := uuid.New()
	f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
	f.listRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.List")).Return(nil)

	list, err := f.svc.SetArchived(context.Background(), ownerID, listID, true)

	require.NoError(t, err)
	assert.True(t, list.IsArchived)
	require.NotNil(t, list.ArchivedAt)

	events := f.broadcaster.published()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventListArchived, events[0].Event)
	payload := events[0].Payload.(realtime.ListArchivedEvent)
	assert.True(t, payload.IsArchived)
}

func TestListService_Delete(t *testing.T) {
	listID := uuid.New()
	ownerID := uuid.New()

	t.Run("owner deletes", func(t *testing.T) {
		f := newListFixture()
		list := &domain.List{ID: listID, OwnerID: ownerID}
		f.listRepo.On("FindByID", mock.Anything, listID).Return(list, nil)
		f.listRepo.On("Save", mock.Anything, list).Return(nil)

		err := f.svc.Delete(context.Background(), ownerID, listID)

		require.NoError(t, err)
		assert.True(t, list.IsDeleted)
		events := f.broadcaster.published()
		require.Len(t, events, 1)
		assert.Equal(t, realtime.EventListDeleted, events[0].Event)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		f := newListFixture()
		f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)

		err := f.svc.Delete(context.Background(), uuid.New(), listID)

		assert.ErrorIs(t, err, service.ErrNotListOwner)
	})
}

func TestListService_Get(t *testing.T) {
	listID := uuid.New()
	ownerID := uuid.New()

	t.Run("unknown list is not found, not forbidden", func(t *testing.T) {
		f := newListFixture()
		f.listRepo.On("FindByID", mock.Anything, listID).Return(nil, repository.ErrNotFound)

		_, err := f.svc.Get(context.Background(), uuid.New(), listID)
		assert.ErrorIs(t, err, service.ErrListNotFound)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		f := newListFixture()
		strangerID := uuid.New()
		f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
		f.collabRepo.On("FindByListAndUser", mock.Anything, listID, strangerID).Return(nil, repository.ErrNotFound)

		_, err := f.svc.Get(context.Background(), strangerID, listID)
		assert.ErrorIs(t, err, service.ErrNoAccess)
	})

	t.Run("active collaborator reads", func(t *testing.T) {
		f := newListFixture()
		collab := activeCollab(listID, uuid.New(), viewerRole())
		f.listRepo.On("FindByID", mock.Anything, listID).Return(&domain.List{ID: listID, OwnerID: ownerID}, nil)
		f.collabRepo.On("FindByListAndUser", mock.Anything, listID, collab.UserID).Return(collab, nil)

		list, err := f.svc.Get(context.Background(), collab.UserID, listID)
		require.NoError(t, err)
		assert.Equal(t, listID, list.ID)
	})
}

func TestListService_Lists_MergesOwnedAndShared(t *testing.T) {
	f := newListFixture()
	actorID := uuid.New()
	owned := []domain.List{{ID: uuid.New(), OwnerID: actorID, Name: "Mine"}}
	shared := []domain.List{{ID: uuid.New(), OwnerID: uuid.New(), Name: "Theirs"}}
	f.listRepo.On("FindOwnedBy", mock.Anything, actorID).Return(owned, nil)
	f.listRepo.On("FindSharedWith", mock.Anything, actorID).Return(shared, nil)

	lists, err := f.svc.Lists(context.Background(), actorID)

	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Mine", lists[0].Name)
	assert.Equal(t, "Theirs", lists[1].Name)
}
