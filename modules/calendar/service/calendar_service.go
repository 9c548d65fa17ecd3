package service

import (
	"context"
	"strings"
	"time"

	"hangout-api/core/errors"
	"hangout-api/core/logger"
	"hangout-api/modules/calendar/dto"
	"hangout-api/modules/calendar/entity"
	"hangout-api/modules/calendar/repository"
)

type CalendarServiceInterface interface {
	SaveGoogleConnection(ctx context.Context, userID string, req *dto.SaveConnectionRequest) (*dto.CalendarConnectionResponse, error)
	GetConnections(ctx context.Context, userID string) ([]dto.CalendarConnectionResponse, error)
	DisconnectCalendar(ctx context.Context, userID, provider string) error
	GetBusy(ctx context.Context, userID string, start, end time.Time) (*dto.UserBusyResponse, error)
}

type CalendarService struct {
	repo     repository.CalendarRepository
	provider CalendarAccessProvider
	now      func() time.Time
}

func NewCalendarService(repo repository.CalendarRepository, provider CalendarAccessProvider) *CalendarService {
	return &CalendarService{
		repo:     repo,
		provider: provider,
		now:      time.Now,
	}
}

func toConnectionResponse(conn *entity.CalendarConnection) dto.CalendarConnectionResponse {
	return dto.CalendarConnectionResponse{
		ID:            conn.ID.String(),
		Provider:      conn.Provider,
		CalendarEmail: conn.CalendarEmail,
		IsActive:      conn.IsActive,
		ConnectedAt:   conn.CreatedAt.Format(time.RFC3339),
	}
}

// SaveGoogleConnection saves or updates a Google Calendar connection
func (s *CalendarService) SaveGoogleConnection(ctx context.Context, userID string, req *dto.SaveConnectionRequest) (*dto.CalendarConnectionResponse, error) {
	if strings.TrimSpace(req.AccessToken) == "" && strings.TrimSpace(req.RefreshToken) == "" {
		return nil, errors.NewAppError(errors.ErrValidation, "access_token or refresh_token is required", nil)
	}

	existing, err := s.repo.GetActiveConnection(ctx, userID, entity.ProviderGoogle)
	if err != nil {
		logger.Error("CalendarService:SaveGoogleConnection:GetActiveConnection:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load calendar connection", err)
	}

	conn := &entity.CalendarConnection{
		UserID:         userID,
		Provider:       entity.ProviderGoogle,
		AccessToken:    req.AccessToken,
		RefreshToken:   req.RefreshToken,
		TokenExpiresAt: req.TokenExpiresAt,
		CalendarEmail:  req.CalendarEmail,
		IsActive:       true,
	}
	if existing != nil {
		conn.BaseEntity = existing.BaseEntity
	}
	conn.Touch(s.now())

	if err := s.repo.UpsertConnection(ctx, conn); err != nil {
		logger.Error("CalendarService:SaveGoogleConnection:UpsertConnection:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to save calendar connection", err)
	}

	logger.Info("CalendarService:SaveGoogleConnection:Success", "user_id", userID)
	resp := toConnectionResponse(conn)
	return &resp, nil
}

func (s *CalendarService) GetConnections(ctx context.Context, userID string) ([]dto.CalendarConnectionResponse, error) {
	connections, err := s.repo.ListConnections(ctx, userID)
	if err != nil {
		logger.Error("CalendarService:GetConnections:ListConnections:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load calendar connections", err)
	}

	result := make([]dto.CalendarConnectionResponse, 0, len(connections))
	for i := range connections {
		result = append(result, toConnectionResponse(&connections[i]))
	}
	return result, nil
}

func (s *CalendarService) DisconnectCalendar(ctx context.Context, userID, provider string) error {
	if provider != entity.ProviderGoogle {
		return errors.NewAppError(errors.ErrInvalidInput, "unsupported calendar provider", nil)
	}
	if err := s.repo.DeactivateConnection(ctx, userID, provider); err != nil {
		logger.Error("CalendarService:DisconnectCalendar:DeactivateConnection:Error", "user_id", userID, "error", err)
		return errors.NewAppError(errors.ErrPersistence, "failed to disconnect calendar", err)
	}
	return nil
}

// GetBusy returns the caller's own busy intervals, as the availability engine sees them.
func (s *CalendarService) GetBusy(ctx context.Context, userID string, start, end time.Time) (*dto.UserBusyResponse, error) {
	if !end.After(start) {
		return nil, errors.NewAppError(errors.ErrValidation, "end must be after start", nil)
	}

	intervals, err := s.provider.GetBusyIntervals(ctx, userID, start, end)
	if err != nil {
		logger.Warn("CalendarService:GetBusy:GetBusyIntervals:Error", "user_id", userID, "error", err)
		return nil, ToAppError(err)
	}

	busy := make([]dto.TimeSlot, 0, len(intervals))
	for _, b := range intervals {
		busy = append(busy, dto.TimeSlot{Start: b.Start, End: b.End})
	}
	return &dto.UserBusyResponse{UserID: userID, Busy: busy}, nil
}
