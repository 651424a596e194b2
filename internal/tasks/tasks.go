package tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// Task type names handled by the worker.
const (
	TypeActivityRecord = "activity:record"
)

// ActivityRecordPayload carries one activity feed entry to the worker.
type ActivityRecordPayload struct {
	Entry domain.ListActivity `json:"entry"`
}

// NewActivityRecordTask serializes the payload for an activity:record task.
func NewActivityRecordTask(entry domain.ListActivity) ([]byte, error) {
	return json.Marshal(ActivityRecordPayload{Entry: entry})
}

// AsynqRecorder enqueues activity entries for background persistence. It
// implements service.ActivityRecorder; enqueue failures are logged and
// swallowed, the feed is best-effort and must never fail a user command.
type AsynqRecorder struct {
	client *asynq.Client
}

func NewAsynqRecorder(client *asynq.Client) *AsynqRecorder {
	if client == nil {
		panic("asynq client cannot be nil for AsynqRecorder")
	}
	return &AsynqRecorder{client: client}
}

func (r *AsynqRecorder) Record(ctx context.Context, entry domain.ListActivity) {
	payload, err := NewActivityRecordTask(entry)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal activity record task")
		return
	}
	task := asynq.NewTask(TypeActivityRecord, payload)
	if _, err := r.client.EnqueueContext(ctx, task, asynq.Queue("low")); err != nil {
		logrus.WithFields(logrus.Fields{
			"list_id": entry.ListID,
			"action":  entry.Action,
		}).WithError(err).Error("Failed to enqueue activity record task")
	}
}
