package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/rkSlalom/ae-infinity-api/internal/repository"
	"github.com/rkSlalom/ae-infinity-api/internal/tasks"
)

// ActivityRecordHandler persists activity feed entries enqueued by the API.
type ActivityRecordHandler struct {
	activityRepo repository.ActivityRepository
}

func NewActivityRecordHandler(activityRepo repository.ActivityRepository) *ActivityRecordHandler {
	return &ActivityRecordHandler{activityRepo: activityRepo}
}

// ProcessTask implements asynq.Handler.
func (h *ActivityRecordHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	retryCount, _ := asynq.GetRetryCount(ctx)
	logCtx := logrus.WithFields(logrus.Fields{
		"task_type": t.Type(),
		"retry":     retryCount,
	})

	var payload tasks.ActivityRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal activity record payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.activityRepo.Save(ctx, &payload.Entry); err != nil {
		logCtx.WithError(err).Errorf("Failed to save activity entry for list %s", payload.Entry.ListID)
		return fmt.Errorf("failed to save activity entry: %w", err)
	}

	logCtx.WithFields(logrus.Fields{
		"list_id": payload.Entry.ListID,
		"action":  payload.Entry.Action,
	}).Debug("Activity entry persisted")
	return nil
}
