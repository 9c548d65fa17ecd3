package worker

import (
	"context"
	"fmt"

	"hangout-api/core/logger"
	"hangout-api/modules/notification/service"

	"github.com/hibiken/asynq"
)

type DeliverHandler struct {
	svc *service.NotificationService
}

func NewDeliverHandler(svc *service.NotificationService) *DeliverHandler {
	return &DeliverHandler{svc: svc}
}

// ProcessTask stores the notification. Malformed payloads are not retried.
func (h *DeliverHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	p, err := service.ParseDeliverTask(t)
	if err != nil {
		logger.Error("DeliverHandler:ProcessTask:Parse:Error", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if p.UserID == "" || !p.Kind.Valid() {
		logger.Error("DeliverHandler:ProcessTask:InvalidPayload", "user_id", p.UserID, "kind", p.Kind)
		return fmt.Errorf("invalid notification payload: %w", asynq.SkipRetry)
	}

	if err := h.svc.Deliver(ctx, p.UserID, p.Kind, p.Data); err != nil {
		return err
	}

	logger.Info("DeliverHandler:ProcessTask:Delivered", "user_id", p.UserID, "kind", p.Kind)
	return nil
}

// Register mounts every notification task handler on mux.
func Register(mux *asynq.ServeMux, svc *service.NotificationService) {
	mux.Handle(service.TypeDeliverNotification, NewDeliverHandler(svc))
}
