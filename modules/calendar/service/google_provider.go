package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"hangout-api/core/config"
	"hangout-api/core/constants"
	"hangout-api/core/logger"
	availabilityEntity "hangout-api/modules/availability/entity"
	"hangout-api/modules/calendar/entity"
	"hangout-api/modules/calendar/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleProvider implements CalendarAccessProvider on Google Calendar using
// the credentials stored in the calendar repository.
type GoogleProvider struct {
	repo          repository.CalendarRepository
	oauthConfig   *oauth2.Config
	calendarID    string
	clientOptions []option.ClientOption
}

type GoogleOption func(*GoogleProvider)

// WithClientOptions passes extra options to every calendar.Service, e.g. an endpoint override.
func WithClientOptions(opts ...option.ClientOption) GoogleOption {
	return func(p *GoogleProvider) {
		p.clientOptions = append(p.clientOptions, opts...)
	}
}

// WithTokenURL overrides Google's token endpoint.
func WithTokenURL(tokenURL string) GoogleOption {
	return func(p *GoogleProvider) {
		p.oauthConfig.Endpoint = oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		}
	}
}

func NewGoogleProvider(repo repository.CalendarRepository, cfg config.GoogleAPIConfig, opts ...GoogleOption) *GoogleProvider {
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	p := &GoogleProvider{
		repo: repo,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarEventsScope, calendar.CalendarReadonlyScope},
		},
		calendarID: calendarID,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OAuthConfig is the client configuration used for consent and token refresh.
func (p *GoogleProvider) OAuthConfig() *oauth2.Config {
	return p.oauthConfig
}

func (p *GoogleProvider) HasAccess(ctx context.Context, userID string) bool {
	conn, err := p.repo.GetActiveConnection(ctx, userID, entity.ProviderGoogle)
	if err != nil {
		logger.Warn("GoogleProvider:HasAccess:GetActiveConnection:Error", "user_id", userID, "error", err)
		return false
	}
	return conn.Usable()
}

func (p *GoogleProvider) GetBusyIntervals(ctx context.Context, userID string, start, end time.Time) ([]availabilityEntity.TimeSlot, error) {
	var busy []availabilityEntity.TimeSlot

	err := p.withService(ctx, userID, "freebusy", func(ctx context.Context, svc *calendar.Service) error {
		query := &calendar.FreeBusyRequest{
			TimeMin: start.Format(time.RFC3339),
			TimeMax: end.Format(time.RFC3339),
			Items:   []*calendar.FreeBusyRequestItem{{Id: p.calendarID}},
		}
		result, err := svc.Freebusy.Query(query).Context(ctx).Do()
		if err != nil {
			return err
		}

		for calID, cal := range result.Calendars {
			if len(cal.Errors) > 0 {
				return fmt.Errorf("freebusy for %s: %s", calID, cal.Errors[0].Reason)
			}
			for _, b := range cal.Busy {
				slot, err := parseBusy(b)
				if err != nil {
					return err
				}
				busy = append(busy, slot)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return busy, nil
}

func parseBusy(b *calendar.TimePeriod) (availabilityEntity.TimeSlot, error) {
	start, err := time.Parse(time.RFC3339, b.Start)
	if err != nil {
		return availabilityEntity.TimeSlot{}, fmt.Errorf("parse busy start %q: %w", b.Start, err)
	}
	end, err := time.Parse(time.RFC3339, b.End)
	if err != nil {
		return availabilityEntity.TimeSlot{}, fmt.Errorf("parse busy end %q: %w", b.End, err)
	}
	return availabilityEntity.TimeSlot{Start: start, End: end}, nil
}

func (p *GoogleProvider) CreateEvent(ctx context.Context, userID string, input EventInput) (string, error) {
	event := &calendar.Event{
		Summary:     input.Title,
		Description: input.Description,
		Start:       &calendar.EventDateTime{DateTime: input.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: input.End.Format(time.RFC3339)},
	}
	if input.Location != nil {
		event.Location = *input.Location
	}

	var eventID string
	err := p.withService(ctx, userID, "create_event", func(ctx context.Context, svc *calendar.Service) error {
		created, err := svc.Events.Insert(p.calendarID, event).Context(ctx).Do()
		if err != nil {
			return err
		}
		eventID = created.Id
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Info("GoogleProvider:CreateEvent:Success", "user_id", userID, "event_id", eventID)
	return eventID, nil
}

// DeleteEvent removes the event. An event that is already gone counts as deleted.
func (p *GoogleProvider) DeleteEvent(ctx context.Context, userID, eventID string) error {
	return p.withService(ctx, userID, "delete_event", func(ctx context.Context, svc *calendar.Service) error {
		err := svc.Events.Delete(p.calendarID, eventID).Context(ctx).Do()
		if hasStatus(err, http.StatusNotFound, http.StatusGone) {
			return nil
		}
		return err
	})
}

// withService runs call against the user's calendar. When Google rejects the
// access token, the token is refreshed once and call is retried once.
func (p *GoogleProvider) withService(
	ctx context.Context,
	userID string,
	op string,
	call func(ctx context.Context, svc *calendar.Service) error,
) error {
	ctx, cancel := context.WithTimeout(ctx, constants.CalendarRequestTimeout)
	defer cancel()

	conn, err := p.repo.GetActiveConnection(ctx, userID, entity.ProviderGoogle)
	if err != nil {
		return &TransportError{Op: op, UserID: userID, Err: err}
	}
	if !conn.Usable() {
		return ErrAccessUnavailable
	}

	token := &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		TokenType:    "Bearer",
	}
	if conn.TokenExpiresAt != nil {
		token.Expiry = *conn.TokenExpiresAt
	}

	err = p.attempt(ctx, conn, token, call)
	if !hasStatus(err, http.StatusUnauthorized) {
		return p.classify(op, userID, err)
	}

	logger.Info("GoogleProvider:withService:RefreshingToken", "user_id", userID, "op", op)
	if conn.RefreshToken == "" {
		return ErrAccessUnavailable
	}

	// An empty access token forces the token source to refresh.
	refreshed, err := p.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: conn.RefreshToken}).Token()
	if err != nil {
		return p.classify(op, userID, err)
	}
	p.persistToken(ctx, conn, refreshed)

	err = p.attempt(ctx, conn, refreshed, call)
	if hasStatus(err, http.StatusUnauthorized) {
		logger.Warn("GoogleProvider:withService:RetryUnauthorized", "user_id", userID, "op", op)
		return ErrAccessUnavailable
	}
	return p.classify(op, userID, err)
}

func (p *GoogleProvider) attempt(
	ctx context.Context,
	conn *entity.CalendarConnection,
	token *oauth2.Token,
	call func(ctx context.Context, svc *calendar.Service) error,
) error {
	ts := &recordingSource{src: p.oauthConfig.TokenSource(ctx, token)}
	opts := append([]option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}, p.clientOptions...)

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create calendar service: %w", err)
	}

	callErr := call(ctx, svc)

	// The token source refreshes expired tokens on its own; keep what it got.
	if current := ts.latest(); current != nil && current.AccessToken != token.AccessToken {
		p.persistToken(ctx, conn, current)
	}

	return callErr
}

// recordingSource remembers the last token handed to the HTTP transport.
type recordingSource struct {
	src  oauth2.TokenSource
	mu   sync.Mutex
	last *oauth2.Token
}

func (r *recordingSource) Token() (*oauth2.Token, error) {
	t, err := r.src.Token()
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.last = t
	r.mu.Unlock()
	return t, nil
}

func (r *recordingSource) latest() *oauth2.Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (p *GoogleProvider) persistToken(ctx context.Context, conn *entity.CalendarConnection, token *oauth2.Token) {
	conn.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		conn.RefreshToken = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		conn.TokenExpiresAt = &expiry
	}
	if err := p.repo.UpdateTokens(ctx, conn); err != nil {
		logger.Error("GoogleProvider:persistToken:UpdateTokens:Error", "user_id", conn.UserID, "error", err)
	}
}

func (p *GoogleProvider) classify(op, userID string, err error) error {
	if err == nil {
		return nil
	}
	var re *oauth2.RetrieveError
	if stderrors.As(err, &re) && (re.ErrorCode == "invalid_grant" || (re.Response != nil && re.Response.StatusCode == http.StatusUnauthorized)) {
		logger.Warn("GoogleProvider:classify:RefreshRejected", "user_id", userID, "op", op, "error", err)
		return ErrAccessUnavailable
	}
	return &TransportError{Op: op, UserID: userID, Err: err}
}

func hasStatus(err error, codes ...int) bool {
	var gerr *googleapi.Error
	if !stderrors.As(err, &gerr) {
		return false
	}
	for _, code := range codes {
		if gerr.Code == code {
			return true
		}
	}
	return false
}
