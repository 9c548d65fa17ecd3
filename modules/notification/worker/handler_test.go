package worker

import (
	"context"
	stderrors "errors"
	"testing"

	"hangout-api/modules/notification/entity"
	"hangout-api/modules/notification/repository"
	"hangout-api/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliverHandler_StoresNotification(t *testing.T) {
	repo := repository.NewMemoryNotificationRepository()
	h := NewDeliverHandler(service.NewNotificationService(repo))

	task, err := service.NewDeliverTask(service.DeliverPayload{
		UserID: "alice",
		Kind:   entity.KindHangoutAccepted,
		Data:   map[string]string{service.PayloadTitle: "Coffee"},
	})
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))

	count, err := repo.CountUnread(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeliverHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewDeliverHandler(service.NewNotificationService(repository.NewMemoryNotificationRepository()))

	err := h.ProcessTask(context.Background(), asynq.NewTask(service.TypeDeliverNotification, []byte("{not json")))
	assert.True(t, stderrors.Is(err, asynq.SkipRetry))

	task, err := service.NewDeliverTask(service.DeliverPayload{UserID: "alice", Kind: "unknown"})
	require.NoError(t, err)
	err = h.ProcessTask(context.Background(), task)
	assert.True(t, stderrors.Is(err, asynq.SkipRetry))
}

func TestRegister(t *testing.T) {
	mux := asynq.NewServeMux()
	Register(mux, service.NewNotificationService(repository.NewMemoryNotificationRepository()))

	_, pattern := mux.Handler(asynq.NewTask(service.TypeDeliverNotification, nil))
	assert.Equal(t, service.TypeDeliverNotification, pattern)
}
