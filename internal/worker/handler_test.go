package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/repository/mocks"
	"github.com/rkSlalom/ae-infinity-api/internal/tasks"
	"github.com/rkSlalom/ae-infinity-api/internal/worker"
)

func TestActivityRecordHandler_ProcessTask(t *testing.T) {
	mockRepo := new(mocks.ActivityRepository)
	handler := worker.NewActivityRecordHandler(mockRepo)

	entry := domain.ListActivity{
		ID:      uuid.New(),
		ListID:  uuid.New(),
		ActorID: uuid.New(),
		Action:  domain.ActivityItemAdded,
		Detail:  "Milk",
	}
	payload, err := tasks.NewActivityRecordTask(entry)
	require.NoError(t, err)

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(got *domain.ListActivity) bool {
		return got.ID == entry.ID && got.Action == entry.Action
	})).Return(nil)

	err = handler.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeActivityRecord, payload))

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestActivityRecordHandler_MalformedPayloadSkipsRetry(t *testing.T) {
	mockRepo := new(mocks.ActivityRepository)
	handler := worker.NewActivityRecordHandler(mockRepo)

	err := handler.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeActivityRecord, []byte("{broken")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestActivityRecordHandler_SaveFailureRetries(t *testing.T) {
	mockRepo := new(mocks.ActivityRepository)
	handler := worker.NewActivityRecordHandler(mockRepo)

	entry := domain.ListActivity{ID: uuid.New(), ListID: uuid.New(), Action: domain.ActivityListCreated}
	payload, err := tasks.NewActivityRecordTask(entry)
	require.NoError(t, err)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

	err = handler.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeActivityRecord, payload))

	assert.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
