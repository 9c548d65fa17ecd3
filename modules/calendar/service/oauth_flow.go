package service

import (
	"context"
	"strings"

	"hangout-api/core/constants"
	"hangout-api/core/errors"
	"hangout-api/core/logger"
	"hangout-api/modules/calendar/dto"
	"hangout-api/modules/calendar/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type OAuthFlowInterface interface {
	AuthURL(ctx context.Context, userID string) (string, error)
	HandleCallback(ctx context.Context, state, code string) (*dto.CalendarConnectionResponse, error)
}

// OAuthFlow connects a Google calendar through the server-side consent
// redirect, as an alternative to clients posting tokens directly.
type OAuthFlow struct {
	oauthConfig *oauth2.Config
	states      repository.OAuthStateStore
	connections *CalendarService
	newState    func() string
}

func NewOAuthFlow(oauthConfig *oauth2.Config, states repository.OAuthStateStore, connections *CalendarService) *OAuthFlow {
	return &OAuthFlow{
		oauthConfig: oauthConfig,
		states:      states,
		connections: connections,
		newState:    uuid.NewString,
	}
}

func (f *OAuthFlow) configured() bool {
	return f.oauthConfig != nil && f.oauthConfig.ClientID != "" && f.oauthConfig.RedirectURL != ""
}

// AuthURL starts a consent flow for userID and returns the Google URL to open.
func (f *OAuthFlow) AuthURL(ctx context.Context, userID string) (string, error) {
	if !f.configured() {
		return "", errors.NewAppError(errors.ErrCalendarAccessUnavailable, "google oauth is not configured", nil)
	}

	state := f.newState()
	if err := f.states.Save(ctx, state, userID, constants.OAuthStateTTL); err != nil {
		logger.Error("OAuthFlow:AuthURL:SaveState:Error", "user_id", userID, "error", err)
		return "", errors.NewAppError(errors.ErrPersistence, "failed to start google authorization", err)
	}

	// Offline access with forced consent so Google always returns a refresh token.
	return f.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// HandleCallback exchanges the authorization code and stores the connection
// for the user who started the flow.
func (f *OAuthFlow) HandleCallback(ctx context.Context, state, code string) (*dto.CalendarConnectionResponse, error) {
	if !f.configured() {
		return nil, errors.NewAppError(errors.ErrCalendarAccessUnavailable, "google oauth is not configured", nil)
	}
	if strings.TrimSpace(state) == "" || strings.TrimSpace(code) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "state and code are required", nil)
	}

	userID, err := f.states.Consume(ctx, state)
	if err != nil {
		logger.Error("OAuthFlow:HandleCallback:ConsumeState:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to verify authorization state", err)
	}
	if userID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid or expired authorization state", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.CalendarRequestTimeout)
	defer cancel()

	token, err := f.oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Warn("OAuthFlow:HandleCallback:Exchange:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrCalendarTransport, "failed to exchange authorization code", err)
	}

	req := &dto.SaveConnectionRequest{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		req.TokenExpiresAt = &expiry
	}

	logger.Info("OAuthFlow:HandleCallback:Exchanged", "user_id", userID)
	return f.connections.SaveGoogleConnection(ctx, userID, req)
}
