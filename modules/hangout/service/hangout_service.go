package service

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"hangout-api/core/cache"
	"hangout-api/core/errors"
	"hangout-api/core/logger"
	"hangout-api/core/metrics"
	"hangout-api/core/utils"
	calendarservice "hangout-api/modules/calendar/service"
	"hangout-api/modules/hangout/dto"
	"hangout-api/modules/hangout/entity"
	"hangout-api/modules/hangout/repository"
	notificationentity "hangout-api/modules/notification/entity"
	notificationservice "hangout-api/modules/notification/service"
)

// CalendarWriter places and removes hangout events on a user's calendar.
type CalendarWriter interface {
	CreateEvent(ctx context.Context, userID string, input calendarservice.EventInput) (string, error)
	DeleteEvent(ctx context.Context, userID, eventID string) error
}

// AvailabilityChecker is the single-user busy check run before creation.
type AvailabilityChecker interface {
	CheckUserAvailability(ctx context.Context, userID string, start, end time.Time) (free bool, known bool, err error)
}

// PersonaResolver picks the persona a user appears as on a hangout.
type PersonaResolver interface {
	ResolvePersona(ctx context.Context, userID, personaID string) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID string, kind notificationentity.Kind, payload map[string]string)
}

type HangoutServiceInterface interface {
	Create(ctx context.Context, creatorUserID string, req *dto.CreateHangoutRequest) (*entity.Hangout, error)
	Respond(ctx context.Context, requestID, responderID string, decision entity.Decision) (*entity.Hangout, error)
	Cancel(ctx context.Context, requestID, actorID string) (*entity.Hangout, error)
	MarkCompleted(ctx context.Context, requestID, actorID string) (*entity.Hangout, error)
	Get(ctx context.Context, requestID, userID string) (*entity.Hangout, error)
	ListForUser(ctx context.Context, userID string) (*HangoutViews, error)
	Delete(ctx context.Context, requestID, actorID string) error
	Now() time.Time
}

type HangoutService struct {
	repo         repository.HangoutRepository
	calendar     CalendarWriter
	availability AvailabilityChecker
	personas     PersonaResolver
	notifier     Notifier
	locker       cache.Locker
	now          func() time.Time
	newID        func() string
}

type Option func(*HangoutService)

func WithClock(now func() time.Time) Option {
	return func(s *HangoutService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *HangoutService) { s.newID = newID }
}

// WithLocker replaces the in-process per-request lock, e.g. with a redis lock
// when several API processes share a database.
func WithLocker(locker cache.Locker) Option {
	return func(s *HangoutService) { s.locker = locker }
}

func NewHangoutService(
	repo repository.HangoutRepository,
	calendar CalendarWriter,
	availability AvailabilityChecker,
	personas PersonaResolver,
	notifier Notifier,
	opts ...Option,
) *HangoutService {
	s := &HangoutService{
		repo:         repo,
		calendar:     calendar,
		availability: availability,
		personas:     personas,
		notifier:     notifier,
		locker:       cache.NewKeyedMutex(),
		now:          time.Now,
		newID:        utils.GenerateID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HangoutService) Now() time.Time {
	return s.now()
}

func validateCreate(creatorUserID string, req *dto.CreateHangoutRequest) error {
	switch {
	case strings.TrimSpace(creatorUserID) == "":
		return errors.NewAppError(errors.ErrValidation, "creator is required", nil)
	case strings.TrimSpace(req.InviteeUserID) == "":
		return errors.NewAppError(errors.ErrValidation, "invitee_user_id is required", nil)
	case creatorUserID == req.InviteeUserID:
		return errors.NewAppError(errors.ErrValidation, "cannot invite yourself", nil)
	case strings.TrimSpace(req.Title) == "":
		return errors.NewAppError(errors.ErrValidation, "title is required", nil)
	case !req.EndDate.After(req.StartDate):
		return errors.NewAppError(errors.ErrValidation, "end_date must be after start_date", nil)
	}
	return nil
}

// Create stores a pending hangout from creatorUserID to the invitee. The
// creator must not already be booked in the proposed window; an unreadable
// calendar does not block creation.
func (s *HangoutService) Create(ctx context.Context, creatorUserID string, req *dto.CreateHangoutRequest) (*entity.Hangout, error) {
	if err := validateCreate(creatorUserID, req); err != nil {
		return nil, err
	}

	personaID, err := s.personas.ResolvePersona(ctx, creatorUserID, req.CreatorPersonaID)
	if err != nil {
		return nil, err
	}
	// The invitee persona is optional; when given it must be one of the invitee's.
	var inviteePersonaID string
	if strings.TrimSpace(req.InviteePersonaID) != "" {
		inviteePersonaID, err = s.personas.ResolvePersona(ctx, req.InviteeUserID, req.InviteePersonaID)
		if err != nil {
			return nil, err
		}
	}

	free, known, err := s.availability.CheckUserAvailability(ctx, creatorUserID, req.StartDate, req.EndDate)
	if err != nil {
		logger.Warn("HangoutService:Create:CheckUserAvailability:Error", "user_id", creatorUserID, "error", err)
	} else if known && !free {
		return nil, errors.NewAppError(errors.ErrCreatorBusy, "you already have something scheduled at this time", nil)
	}

	now := s.now()
	hangout := &entity.Hangout{
		ID:               s.newID(),
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Location:         req.Location,
		CreatorUserID:    creatorUserID,
		CreatorPersonaID: personaID,
		InviteeUserID:    req.InviteeUserID,
		InviteePersonaID: inviteePersonaID,
		Status:           entity.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.PutRequest(ctx, hangout); err != nil {
		logger.Error("HangoutService:Create:PutRequest:Error", "hangout_id", hangout.ID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to save hangout", err)
	}
	metrics.LifecycleTransitions.WithLabelValues(string(entity.StatusPending)).Inc()
	logger.Info("HangoutService:Create:Success", "hangout_id", hangout.ID, "creator", creatorUserID, "invitee", hangout.InviteeUserID)

	s.notify(ctx, hangout.InviteeUserID, notificationentity.KindNewHangoutRequest, hangout, creatorUserID)
	return hangout, nil
}

// Respond applies the invitee's decision to a pending hangout. Accepting
// places the event on both calendars; calendar failures are logged and never
// fail the call.
func (s *HangoutService) Respond(ctx context.Context, requestID, responderID string, decision entity.Decision) (*entity.Hangout, error) {
	if !decision.Valid() {
		return nil, errors.NewAppError(errors.ErrValidation, "decision must be accepted or declined", nil)
	}

	unlock, err := s.lock(ctx, requestID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	hangout, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if responderID != hangout.InviteeUserID {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the invitee can respond", nil)
	}

	target := decision.Status()
	if !hangout.Status.CanTransitionTo(target) {
		return nil, invalidTransition(hangout, target)
	}

	var created []partyEvent
	if target == entity.StatusAccepted {
		created = s.createEvents(ctx, hangout)
	}

	if err := hangout.Transition(target, s.now()); err != nil {
		return nil, invalidTransition(hangout, target)
	}
	if err := s.repo.PutRequest(ctx, hangout); err != nil {
		logger.Error("HangoutService:Respond:PutRequest:Error", "hangout_id", requestID, "error", err)
		if len(created) > 0 {
			s.deleteEvents(ctx, created, "rollback")
		}
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to save hangout", err)
	}
	metrics.LifecycleTransitions.WithLabelValues(string(target)).Inc()
	logger.Info("HangoutService:Respond:Success", "hangout_id", requestID, "status", target)

	kind := notificationentity.KindHangoutDeclined
	if target == entity.StatusAccepted {
		kind = notificationentity.KindHangoutAccepted
	}
	s.notify(ctx, hangout.CreatorUserID, kind, hangout, responderID)
	return hangout, nil
}

// Cancel withdraws a pending or accepted hangout. The new status is stored
// before either calendar is touched.
func (s *HangoutService) Cancel(ctx context.Context, requestID, actorID string) (*entity.Hangout, error) {
	unlock, err := s.lock(ctx, requestID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	hangout, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !hangout.IsParty(actorID) {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the creator or invitee can cancel", nil)
	}
	if err := hangout.Transition(entity.StatusCancelled, s.now()); err != nil {
		return nil, invalidTransition(hangout, entity.StatusCancelled)
	}

	if err := s.repo.PutRequest(ctx, hangout); err != nil {
		logger.Error("HangoutService:Cancel:PutRequest:Error", "hangout_id", requestID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to save hangout", err)
	}
	metrics.LifecycleTransitions.WithLabelValues(string(entity.StatusCancelled)).Inc()
	logger.Info("HangoutService:Cancel:Success", "hangout_id", requestID, "actor", actorID)

	s.deleteEvents(ctx, placedEvents(hangout), "delete")

	s.notify(ctx, hangout.Counterpart(actorID), notificationentity.KindHangoutCancelled, hangout, actorID)
	return hangout, nil
}

// MarkCompleted persists the completed status of an accepted hangout that has ended.
func (s *HangoutService) MarkCompleted(ctx context.Context, requestID, actorID string) (*entity.Hangout, error) {
	unlock, err := s.lock(ctx, requestID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	hangout, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !hangout.IsParty(actorID) {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the creator or invitee can complete", nil)
	}
	if !hangout.Status.CanTransitionTo(entity.StatusCompleted) {
		return nil, invalidTransition(hangout, entity.StatusCompleted)
	}

	now := s.now()
	if !hangout.IsElapsed(now) {
		return nil, errors.NewAppError(errors.ErrValidation, "hangout has not ended yet", nil)
	}
	if err := hangout.Transition(entity.StatusCompleted, now); err != nil {
		return nil, invalidTransition(hangout, entity.StatusCompleted)
	}

	if err := s.repo.PutRequest(ctx, hangout); err != nil {
		logger.Error("HangoutService:MarkCompleted:PutRequest:Error", "hangout_id", requestID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to save hangout", err)
	}
	metrics.LifecycleTransitions.WithLabelValues(string(entity.StatusCompleted)).Inc()
	return hangout, nil
}

// Delete removes a hangout for good. Calendar cleanup is attempted first and
// its failures never block the removal.
func (s *HangoutService) Delete(ctx context.Context, requestID, actorID string) error {
	unlock, err := s.lock(ctx, requestID)
	if err != nil {
		return err
	}
	defer unlock()

	hangout, err := s.load(ctx, requestID)
	if err != nil {
		return err
	}
	if !hangout.IsParty(actorID) {
		return errors.NewAppError(errors.ErrForbidden, "only the creator or invitee can delete", nil)
	}

	s.deleteEvents(ctx, placedEvents(hangout), "delete")

	if err := s.repo.DeleteRequest(ctx, requestID); err != nil {
		logger.Error("HangoutService:Delete:DeleteRequest:Error", "hangout_id", requestID, "error", err)
		return errors.NewAppError(errors.ErrPersistence, "failed to delete hangout", err)
	}
	logger.Info("HangoutService:Delete:Success", "hangout_id", requestID, "actor", actorID)
	return nil
}

func (s *HangoutService) Get(ctx context.Context, requestID, userID string) (*entity.Hangout, error) {
	hangout, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !hangout.IsParty(userID) {
		return nil, errors.NewAppError(errors.ErrForbidden, "you are not part of this hangout", nil)
	}
	return hangout, nil
}

func (s *HangoutService) ListForUser(ctx context.Context, userID string) (*HangoutViews, error) {
	hangouts, err := s.repo.QueryRequestsByParty(ctx, userID)
	if err != nil {
		logger.Error("HangoutService:ListForUser:QueryRequestsByParty:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load hangouts", err)
	}

	views := Partition(hangouts, s.now())
	return &views, nil
}

func (s *HangoutService) lock(ctx context.Context, requestID string) (func(), error) {
	unlock, err := s.locker.Lock(ctx, "hangout:"+requestID)
	if err != nil {
		logger.Error("HangoutService:lock:Error", "hangout_id", requestID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "hangout is busy, try again", err)
	}
	return unlock, nil
}

func (s *HangoutService) load(ctx context.Context, requestID string) (*entity.Hangout, error) {
	hangout, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		logger.Error("HangoutService:load:GetRequest:Error", "hangout_id", requestID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load hangout", err)
	}
	if hangout == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "hangout not found", nil)
	}
	return hangout, nil
}

func invalidTransition(h *entity.Hangout, target entity.HangoutStatus) error {
	return errors.NewAppError(errors.ErrInvalidTransition,
		"hangout is "+string(h.Status)+" and cannot become "+string(target), entity.ErrInvalidTransition)
}

type partyEvent struct {
	userID  string
	role    string
	eventID string
}

// placedEvents lists the calendar events currently recorded for each party.
func placedEvents(h *entity.Hangout) []partyEvent {
	var events []partyEvent
	for _, party := range []struct{ userID, role string }{
		{h.CreatorUserID, "creator"},
		{h.InviteeUserID, "invitee"},
	} {
		if eventID := h.EventFor(party.userID); eventID != "" {
			events = append(events, partyEvent{userID: party.userID, role: party.role, eventID: eventID})
		}
	}
	return events
}

// createEvents places the hangout on the invitee's calendar and then on the
// creator's, skipping a party that already has an event. It returns the events
// created by this call.
func (s *HangoutService) createEvents(ctx context.Context, h *entity.Hangout) []partyEvent {
	input := calendarservice.EventInput{
		Title:       h.Title,
		Description: h.Description,
		Start:       h.StartDate,
		End:         h.EndDate,
		Location:    h.Location,
	}

	parties := []struct {
		userID   string
		role     string
		existing *string
	}{
		{h.InviteeUserID, "invitee", h.InviteeEventID},
		{h.CreatorUserID, "creator", h.CreatorEventID},
	}

	var created []partyEvent
	for _, p := range parties {
		if p.existing != nil {
			continue
		}
		eventID, err := s.calendar.CreateEvent(ctx, p.userID, input)
		if err != nil {
			metrics.CalendarSideEffectFailures.WithLabelValues("create", p.role).Inc()
			logger.Warn("HangoutService:createEvents:CreateEvent:Error",
				"hangout_id", h.ID, "party", p.role, "user_id", p.userID,
				"access_unavailable", stderrors.Is(err, calendarservice.ErrAccessUnavailable), "error", err)
			continue
		}
		h.RecordEvent(p.userID, eventID)
		created = append(created, partyEvent{userID: p.userID, role: p.role, eventID: eventID})
	}
	return created
}

// deleteEvents removes each event independently and waits for all of them.
func (s *HangoutService) deleteEvents(ctx context.Context, events []partyEvent, operation string) {
	var wg sync.WaitGroup
	for _, ev := range events {
		wg.Add(1)
		go func(ev partyEvent) {
			defer wg.Done()
			if err := s.calendar.DeleteEvent(ctx, ev.userID, ev.eventID); err != nil {
				metrics.CalendarSideEffectFailures.WithLabelValues(operation, ev.role).Inc()
				logger.Warn("HangoutService:deleteEvents:DeleteEvent:Error",
					"party", ev.role, "user_id", ev.userID, "event_id", ev.eventID, "error", err)
			}
		}(ev)
	}
	wg.Wait()
}

func (s *HangoutService) notify(ctx context.Context, userID string, kind notificationentity.Kind, h *entity.Hangout, actorID string) {
	if s.notifier == nil || userID == "" {
		return
	}
	s.notifier.Notify(ctx, userID, kind, map[string]string{
		notificationservice.PayloadHangoutID: h.ID,
		notificationservice.PayloadTitle:     h.Title,
		notificationservice.PayloadActorID:   actorID,
	})
}
