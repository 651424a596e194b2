package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
)

// ActivityRecorder hands an activity entry to the background pipeline.
// Recording is fire-and-forget: a failed enqueue is logged by the
// implementation and never fails the command that produced it.
type ActivityRecorder interface {
	Record(ctx context.Context, entry domain.ListActivity)
}

// NopRecorder discards everything. Used where no pipeline is wired (tests).
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, domain.ListActivity) {}

const defaultActivityLimit = 50

// ActivityService reads the per-list activity feed.
type ActivityService struct {
	activityRepo repository.ActivityRepository
	perms        *PermissionService
}

// NewActivityService creates an ActivityService.
func NewActivityService(activityRepo repository.ActivityRepository, perms *PermissionService) *ActivityService {
	if activityRepo == nil || perms == nil {
		panic("ActivityService requires non-nil dependencies")
	}
	return &ActivityService{activityRepo: activityRepo, perms: perms}
}

// Feed returns the list's recent activity, newest first.
func (s *ActivityService) Feed(ctx context.Context, actorID, listID uuid.UUID, limit int) ([]domain.ListActivity, error) {
	if !s.perms.CanAccess(ctx, actorID, listID) {
		return nil, ErrNoAccess
	}
	if limit <= 0 || limit > defaultActivityLimit {
		limit = defaultActivityLimit
	}
	entries, err := s.activityRepo.FindByList(ctx, listID, limit)
	if err != nil {
		return nil, ErrInternalServer
	}
	return entries, nil
}
