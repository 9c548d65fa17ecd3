package service

import (
	"context"

	"hangout-api/core/constants"
	"hangout-api/core/logger"
	"hangout-api/core/metrics"
	"hangout-api/modules/notification/entity"

	"github.com/hibiken/asynq"
)

// Dispatcher sends a notification without reporting failure to the caller.
type Dispatcher interface {
	Notify(ctx context.Context, userID string, kind entity.Kind, payload map[string]string)
}

// SyncDispatcher writes to the inbox in the calling goroutine.
type SyncDispatcher struct {
	svc *NotificationService
}

func NewSyncDispatcher(svc *NotificationService) *SyncDispatcher {
	return &SyncDispatcher{svc: svc}
}

func (d *SyncDispatcher) Notify(ctx context.Context, userID string, kind entity.Kind, payload map[string]string) {
	if err := d.svc.Deliver(ctx, userID, kind, payload); err != nil {
		metrics.NotificationFailures.WithLabelValues(string(kind)).Inc()
		logger.Warn("SyncDispatcher:Notify:Deliver:Error", "user_id", userID, "kind", kind, "error", err)
	}
}

// AsynqDispatcher enqueues a delivery task for the worker process.
type AsynqDispatcher struct {
	client *asynq.Client
}

func NewAsynqDispatcher(client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{client: client}
}

func (d *AsynqDispatcher) Notify(ctx context.Context, userID string, kind entity.Kind, payload map[string]string) {
	task, err := NewDeliverTask(DeliverPayload{UserID: userID, Kind: kind, Data: payload})
	if err != nil {
		metrics.NotificationFailures.WithLabelValues(string(kind)).Inc()
		logger.Error("AsynqDispatcher:Notify:NewDeliverTask:Error", "user_id", userID, "kind", kind, "error", err)
		return
	}

	info, err := d.client.EnqueueContext(ctx, task,
		asynq.Queue(constants.NotificationQueue),
		asynq.MaxRetry(5),
	)
	if err != nil {
		metrics.NotificationFailures.WithLabelValues(string(kind)).Inc()
		logger.Warn("AsynqDispatcher:Notify:Enqueue:Error", "user_id", userID, "kind", kind, "error", err)
		return
	}

	logger.Debug("AsynqDispatcher:Notify:Enqueued", "task_id", info.ID, "user_id", userID, "kind", kind)
}
