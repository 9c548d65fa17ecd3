package service

import (
	"context"
	"fmt"
	"time"

	"hangout-api/core/errors"
	"hangout-api/core/logger"
	"hangout-api/core/params"
	"hangout-api/modules/notification/entity"
	"hangout-api/modules/notification/repository"
)

// Payload keys understood by the message templates.
const (
	PayloadHangoutID = "hangout_id"
	PayloadTitle     = "title"
	PayloadActorID   = "actor_id"
)

// NotificationService owns the per-user inbox.
type NotificationService struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now}
}

func render(kind entity.Kind, payload map[string]string) (string, string) {
	title := payload[PayloadTitle]
	switch kind {
	case entity.KindNewHangoutRequest:
		return "New Hangout Request", fmt.Sprintf("Someone wants to hang out with you: %q", title)
	case entity.KindHangoutAccepted:
		return "Hangout Accepted", fmt.Sprintf("Your hangout request %q was accepted!", title)
	case entity.KindHangoutDeclined:
		return "Hangout Declined", fmt.Sprintf("Your hangout request %q was declined.", title)
	case entity.KindHangoutCancelled:
		return "Hangout Cancelled", fmt.Sprintf("The hangout %q was cancelled.", title)
	default:
		return "Notification", title
	}
}

// Deliver writes one inbox entry for userID.
func (s *NotificationService) Deliver(ctx context.Context, userID string, kind entity.Kind, payload map[string]string) error {
	if userID == "" || !kind.Valid() {
		return errors.NewAppError(errors.ErrValidation, "invalid notification", nil)
	}

	title, message := render(kind, payload)
	notif := &entity.Notification{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: message,
		Data:    entity.JSONB(payload),
	}
	notif.Touch(s.now())

	if err := s.repo.Create(ctx, notif); err != nil {
		logger.Error("NotificationService:Deliver:Create:Error", "user_id", userID, "kind", kind, "error", err)
		return errors.NewAppError(errors.ErrPersistence, "failed to store notification", err)
	}
	return nil
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID string, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	result, err := s.repo.GetByUserID(ctx, userID, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load notifications", err)
	}
	return result, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID string, ids []string) error {
	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		return errors.NewAppError(errors.ErrPersistence, "failed to mark notifications as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrPersistence, "failed to mark notifications as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrPersistence, "failed to count notifications", err)
	}
	return count, nil
}
