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

// ItemService handles item commands. Every mutation is gated by the caller's
// effective role on the list and followed by one list-scoped broadcast.
type ItemService struct {
	listRepo    repository.ListRepository
	itemRepo    repository.ItemRepository
	perms       *PermissionService
	broadcaster realtime.Broadcaster
	activity    ActivityRecorder
}

// NewItemService creates an ItemService.
func NewItemService(listRepo repository.ListRepository, itemRepo repository.ItemRepository, perms *PermissionService, broadcaster realtime.Broadcaster, activity ActivityRecorder) *ItemService {
	if listRepo == nil || itemRepo == nil || perms == nil || broadcaster == nil {
		panic("ItemService requires non-nil dependencies")
	}
	if activity == nil {
		activity = NopRecorder{}
	}
	return &ItemService{listRepo: listRepo, itemRepo: itemRepo, perms: perms, broadcaster: broadcaster, activity: activity}
}

// ItemInput carries the mutable fields of an item for create and update.
type ItemInput struct {
	Name       string     `json:"name" binding:"required"`
	Quantity   float64    `json:"quantity"`
	Unit       string     `json:"unit"`
	Notes      string     `json:"notes"`
	CategoryID *uuid.UUID `json:"categoryId"`
}

// Create appends a new item at the end of the list.
func (s *ItemService) Create(ctx context.Context, actorID, listID uuid.UUID, in ItemInput) (*domain.ListItem, error) {
	if _, err := s.listRepo.FindByID(ctx, listID); err != nil {
		return nil, mapRepoError(err, ErrListNotFound)
	}
	role := s.perms.EffectiveRole(ctx, actorID, listID)
	if role == nil {
		return nil, ErrNoAccess
	}
	if !role.CanCreateItems {
		return nil, ErrNoAccess
	}

	pos, err := s.itemRepo.NextPosition(ctx, listID)
	if err != nil {
		logrus.WithField("list_id", listID).WithError(err).Error("Create: failed to compute next position")
		return nil, ErrInternalServer
	}

	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	item := &domain.ListItem{
		ID:         uuid.New(),
		ListID:     listID,
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Quantity:   quantity,
		Unit:       in.Unit,
		Notes:      in.Notes,
		Position:   pos,
		CreatedBy:  actorID,
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		logrus.WithField("list_id", listID).WithError(err).Error("Create: failed to save item")
		return nil, ErrInternalServer
	}

	s.broadcaster.PublishToList(listID, realtime.EventItemAdded, realtime.ItemEvent{
		ListID: listID, ActorID: actorID, Item: item, Timestamp: time.Now().UTC(),
	})
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: listID, ActorID: actorID, ItemID: &item.ID,
		Action: domain.ActivityItemAdded, Detail: item.Name,
	})
	return item, nil
}

// Update rewrites the item's fields.
func (s *ItemService) Update(ctx context.Context, actorID, listID, itemID uuid.UUID, in ItemInput) (*domain.ListItem, error) {
	item, err := s.itemInList(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}
	role := s.perms.EffectiveRole(ctx, actorID, listID)
	if !allowsEdit(role, item, actorID) {
		return nil, ErrNoAccess
	}

	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	item.Name = in.Name
	item.Quantity = quantity
	item.Unit = in.Unit
	item.Notes = in.Notes
	item.CategoryID = in.CategoryID
	item.UpdatedBy = &actorID
	if err := s.itemRepo.Save(ctx, item); err != nil {
		logrus.WithField("item_id", itemID).WithError(err).Error("Update: failed to save item")
		return nil, ErrInternalServer
	}

	s.broadcaster.PublishToList(listID, realtime.EventItemUpdated, realtime.ItemEvent{
		ListID: listID, ActorID: actorID, Item: item, Timestamp: time.Now().UTC(),
	})
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: listID, ActorID: actorID, ItemID: &item.ID,
		Action: domain.ActivityItemUpdated, Detail: item.Name,
	})
	return item, nil
}

// Delete soft-deletes the item.
func (s *ItemService) Delete(ctx context.Context, actorID, listID, itemID uuid.UUID) error {
	item, err := s.itemInList(ctx, listID, itemID)
	if err != nil {
		return err
	}
	role := s.perms.EffectiveRole(ctx, actorID, listID)
	if role == nil || !role.CanDeleteItems {
		return ErrNoAccess
	}
	if role.CanEditOwnItemsOnly && item.CreatedBy != actorID {
		return ErrNoAccess
	}

	now := time.Now().UTC()
	item.SoftDelete(actorID, now)
	if err := s.itemRepo.Save(ctx, item); err != nil {
		logrus.WithField("item_id", itemID).WithError(err).Error("Delete: failed to save item")
		return ErrInternalServer
	}

	s.broadcaster.PublishToList(listID, realtime.EventItemDeleted, realtime.ItemDeletedEvent{
		ListID: listID, ItemID: itemID, ActorID: actorID, Timestamp: now,
	})
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: listID, ActorID: actorID, ItemID: &itemID,
		Action: domain.ActivityItemDeleted, Detail: item.Name,
	})
	return nil
}

// SetPurchased toggles the purchase state. Re-marking an already-purchased
// item (or un-marking an unpurchased one) is reported as a conflict so two
// shoppers learn they crossed paths.
func (s *ItemService) SetPurchased(ctx context.Context, actorID, listID, itemID uuid.UUID, purchased bool) (*domain.ListItem, error) {
	item, err := s.itemInList(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}
	role := s.perms.EffectiveRole(ctx, actorID, listID)
	if role == nil || !role.CanMarkPurchased {
		return nil, ErrNoAccess
	}

	if purchased {
		if item.IsPurchased {
			return nil, ErrAlreadyPurchased
		}
		item.MarkPurchased(actorID, time.Now().UTC())
	} else {
		if !item.IsPurchased {
			return nil, ErrNotPurchased
		}
		item.MarkUnpurchased()
	}
	item.UpdatedBy = &actorID
	if err := s.itemRepo.Save(ctx, item); err != nil {
		logrus.WithField("item_id", itemID).WithError(err).Error("SetPurchased: failed to save item")
		return nil, ErrInternalServer
	}

	s.broadcaster.PublishToList(listID, realtime.EventItemPurchasedStatusChanged, realtime.ItemEvent{
		ListID: listID, ActorID: actorID, Item: item, Timestamp: time.Now().UTC(),
	})
	verb := domain.ActivityItemPurchased
	if !purchased {
		verb = domain.ActivityItemUnpurchased
	}
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: listID, ActorID: actorID, ItemID: &itemID,
		Action: verb, Detail: item.Name,
	})
	return item, nil
}

// Reorder applies a bulk position assignment. The repository serializes
// concurrent reorders of the same list, so the last writer's full layout wins;
// ids that no longer resolve are skipped rather than failing the batch. One
// ItemsReordered event carries the entire position set.
func (s *ItemService) Reorder(ctx context.Context, actorID, listID uuid.UUID, positions []repository.ItemPosition) error {
	if _, err := s.listRepo.FindByID(ctx, listID); err != nil {
		return mapRepoError(err, ErrListNotFound)
	}
	role := s.perms.EffectiveRole(ctx, actorID, listID)
	if role == nil || role.Name == domain.RoleViewer {
		return ErrNoAccess
	}
	if len(positions) == 0 {
		return nil
	}

	if err := s.itemRepo.Reorder(ctx, listID, positions); err != nil {
		logrus.WithField("list_id", listID).WithError(err).Error("Reorder: failed to apply positions")
		return ErrInternalServer
	}

	s.broadcaster.PublishToList(listID, realtime.EventItemsReordered, realtime.ItemsReorderedEvent{
		ListID: listID, ActorID: actorID, Items: positions, Timestamp: time.Now().UTC(),
	})
	s.activity.Record(ctx, domain.ListActivity{
		ID: uuid.New(), ListID: listID, ActorID: actorID, Action: domain.ActivityItemsReordered,
	})
	return nil
}

// Items returns the list's items in position order.
func (s *ItemService) Items(ctx context.Context, actorID, listID uuid.UUID) ([]domain.ListItem, error) {
	if _, err := s.listRepo.FindByID(ctx, listID); err != nil {
		return nil, mapRepoError(err, ErrListNotFound)
	}
	if !s.perms.CanAccess(ctx, actorID, listID) {
		return nil, ErrNoAccess
	}
	items, err := s.itemRepo.FindByList(ctx, listID)
	if err != nil {
		return nil, ErrInternalServer
	}
	return items, nil
}

// Get returns one item from the list.
func (s *ItemService) Get(ctx context.Context, actorID, listID, itemID uuid.UUID) (*domain.ListItem, error) {
	item, err := s.itemInList(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanAccess(ctx, actorID, listID) {
		return nil, ErrNoAccess
	}
	return item, nil
}

// itemInList loads the item and rejects ids that belong to a different list.
func (s *ItemService) itemInList(ctx context.Context, listID, itemID uuid.UUID) (*domain.ListItem, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, mapRepoError(err, ErrItemNotFound)
	}
	if item.ListID != listID {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// allowsEdit applies the edit capability, narrowed to the creator's own items
// for limited editors.
func allowsEdit(role *domain.Role, item *domain.ListItem, actorID uuid.UUID) bool {
	if role == nil || !role.CanEditItems {
		return false
	}
	if role.CanEditOwnItemsOnly && item.CreatedBy != actorID {
		return false
	}
	return true
}
