package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/realtime"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
)

// ListService handles list commands. List-level events are broadcast to every
// connected client so dashboards update without a subscription to the list.
type ListService struct {
	listRepo    repository.ListRepository
	perms       *PermissionService
	broadcaster realtime.Broadcaster
	activity    ActivityRecorder
}

// NewListService creates a ListService.
func NewListService(listRepo repository.ListRepository, perms *PermissionService, broadcaster realtime.Broadcaster, activity ActivityRecorder) *ListService {
	if listRepo == nil || perms == nil || broadcaster == nil {
		panic("ListService requires non-nil dependencies")
	}
	if activity == nil {
		activity = NopRecorder{}
	}
	return &ListService{listRepo: listRepo, perms: perms, broadcaster: broadcaster, activity: activity}
}

// Create makes the caller the owner of a new list.
func (s *ListService) Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*domain.List, error) {
	list := &domain.List{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.listRepo.Save(ctx, list); err != nil {
		logrus.WithFields(logrus.Fields{"owner_id": ownerID}).WithError(err).Error("Create: failed to save list")
		return nil, ErrInternalServer
	}

	s.broadcaster.PublishToAll(realtime.EventListCreated, realtime.ListEvent{
		ListID: list.ID, ActorID: ownerID, List: list, Timestamp: time.Now().UTC(),
	})
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: list.ID, ActorID: ownerID,
		Action: domain.ActivityListCreated, Detail: list.Name,
	})
	logrus.WithFields(logrus.Fields{"list_id": list.ID, "owner_id": ownerID}).Info("List created")
	return list, nil
}

// Update changes the list's name and description. Owner-only.
func (s *ListService) Update(ctx context.Context, actorID, listID uuid.UUID, name, description string) (*domain.List, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, mapRepoError(err, ErrListNotFound)
	}
	if !s.perms.CanEdit(ctx, actorID, listID) {
		return nil, ErrNotListOwner
	}

	list.Name = name
	list.Description = description
	if err := s.listRepo.Save(ctx, list); err != nil {
		logrus.WithField("list_id", listID).WithError(err).Error("Update: failed to save list")
		return nil, ErrInternalServer
	}

	s.broadcaster.PublishToAll(realtime.EventListUpdated, realtime.ListEvent{
		ListID: list.ID, ActorID: actorID, List: list, Timestamp: time.Now().UTC(),
	})
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: listID, ActorID: actorID, Action: domain.ActivityListUpdated,
	})
	return list, nil
}

// SetArchived archives or unarchives the list. Owner-only.
func (s *ListService) SetArchived(ctx context.Context, actorID, listID uuid.UUID, archived bool) (*domain.List, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, mapRepoError(err, ErrListNotFound)
	}
	if !s.perms.CanArchive(ctx, actorID, listID) {
		return nil, ErrNotListOwner
	}

	now := time.Now().UTC()
	if archived {
		list.Archive(actorID, now)
	} else {
		list.Unarchive()
	}
	if err := s.listRepo.Save(ctx, list); err != nil {
		logrus.WithField("list_id", listID).WithError(err).Error("SetArchived: failed to save list")
		return nil, ErrInternalServer
	}

	s.broadcaster.PublishToAll(realtime.EventListArchived, realtime.ListArchivedEvent{
		ListID:     list.ID,
		ActorID:    actorID,
		IsArchived: list.IsArchived,
		ArchivedAt: list.ArchivedAt,
		Timestamp:  now,
	})
	verb := domain.ActivityListArchived
	if !archived {
		verb = domain.ActivityListUnarchived
	}
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: listID, ActorID: actorID, Action: verb,
	})
	logrus.WithFields(logrus.Fields{"list_id": listID, "archived": archived}).Info("List archive state changed")
	return list, nil
}

// Delete soft-deletes the list. Owner-only.
func (s *ListService) Delete(ctx context.Context, actorID, listID uuid.UUID) error {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return mapRepoError(err, ErrListNotFound)
	}
	if !s.perms.CanDelete(ctx, actorID, listID) {
		return ErrNotListOwner
	}

	now := time.Now().UTC()
	list.SoftDelete(actorID, now)
	if err := s.listRepo.Save(ctx, list); err != nil {
		logrus.WithField("list_id", listID).WithError(err).Error("Delete: failed to save list")
		return ErrInternalServer
	}

	s.broadcaster.PublishToAll(realtime.EventListDeleted, realtime.ListDeletedEvent{
		ListID: listID, ActorID: actorID, Timestamp: now,
	})
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: listID, ActorID: actorID, Action: domain.ActivityListDeleted,
	})
	logrus.WithField("list_id", listID).Info("List deleted")
	return nil
}

// Get returns one list the caller may access.
func (s *ListService) Get(ctx context.Context, actorID, listID uuid.UUID) (*domain.List, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, mapRepoError(err, ErrListNotFound)
	}
	if !s.perms.CanAccess(ctx, actorID, listID) {
		return nil, ErrNoAccess
	}
	return list, nil
}

// Lists returns everything the caller owns or actively collaborates on.
func (s *ListService) Lists(ctx context.Context, actorID uuid.UUID) ([]domain.List, error) {
	owned, err := s.listRepo.FindOwnedBy(ctx, actorID)
	if err != nil {
		return nil, ErrInternalServer
	}
	shared, err := s.listRepo.FindSharedWith(ctx, actorID)
	if err != nil {
		return nil, ErrInternalServer
	}
	return append(owned, shared...), nil
}
