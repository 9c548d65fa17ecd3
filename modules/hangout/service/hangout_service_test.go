package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"hangout-api/core/errors"
	calendarservice "hangout-api/modules/calendar/service"
	"hangout-api/modules/hangout/dto"
	"hangout-api/modules/hangout/entity"
	"hangout-api/modules/hangout/repository"
	notificationentity "hangout-api/modules/notification/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalendar struct {
	mu        sync.Mutex
	createErr map[string]error
	deleteErr map[string]error
	created   []string
	deleted   []string
	seq       int
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{createErr: map[string]error{}, deleteErr: map[string]error{}}
}

func (f *fakeCalendar) CreateEvent(_ context.Context, userID string, _ calendarservice.EventInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.createErr[userID]; err != nil {
		return "", err
	}
	f.seq++
	f.created = append(f.created, userID)
	return fmt.Sprintf("evt-%s-%d", userID, f.seq), nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, userID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, userID+"/"+eventID)
	return f.deleteErr[userID]
}

func (f *fakeCalendar) calls() (created, deleted []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.created...), append([]string(nil), f.deleted...)
}

type fakeAvailability struct {
	free, known bool
	calls       int
}

func (f *fakeAvailability) CheckUserAvailability(context.Context, string, time.Time, time.Time) (bool, bool, error) {
	f.calls++
	return f.free, f.known, nil
}

type fakePersonas struct {
	calls int
}

func (f *fakePersonas) ResolvePersona(_ context.Context, userID, personaID string) (string, error) {
	f.calls++
	if personaID == "missing" {
		return "", errors.NewAppError(errors.ErrValidation, "persona not found", nil)
	}
	if personaID == "" {
		return "default-" + userID, nil
	}
	return personaID, nil
}

type sentNotification struct {
	userID string
	kind   notificationentity.Kind
	id     string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) Notify(_ context.Context, userID string, kind notificationentity.Kind, payload map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{userID: userID, kind: kind, id: payload["hangout_id"]})
}

func (n *recordingNotifier) all() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNotification(nil), n.sent...)
}

// countingRepo counts writes and can be told to fail them.
type countingRepo struct {
	repository.HangoutRepository
	puts       int
	failPut    bool
	failDelete bool
}

func (r *countingRepo) PutRequest(ctx context.Context, h *entity.Hangout) error {
	r.puts++
	if r.failPut {
		return stderrors.New("connection reset")
	}
	return r.HangoutRepository.PutRequest(ctx, h)
}

func (r *countingRepo) DeleteRequest(ctx context.Context, id string) error {
	if r.failDelete {
		return stderrors.New("connection reset")
	}
	return r.HangoutRepository.DeleteRequest(ctx, id)
}

type fixture struct {
	svc          *HangoutService
	repo         *countingRepo
	calendar     *fakeCalendar
	availability *fakeAvailability
	personas     *fakePersonas
	notifier     *recordingNotifier
	now          time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:         &countingRepo{HangoutRepository: repository.NewMemoryHangoutRepository()},
		calendar:     newFakeCalendar(),
		availability: &fakeAvailability{free: true, known: true},
		personas:     &fakePersonas{},
		notifier:     &recordingNotifier{},
		now:          time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC),
	}
	ids := 0
	f.svc = NewHangoutService(f.repo, f.calendar, f.availability, f.personas, f.notifier,
		WithClock(func() time.Time { return f.now }),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("h%d", ids)
		}),
	)
	return f
}

func (f *fixture) request(start time.Time) *dto.CreateHangoutRequest {
	return &dto.CreateHangoutRequest{
		Title:         "Coffee",
		StartDate:     start,
		EndDate:       start.Add(time.Hour),
		InviteeUserID: "bob",
	}
}

func (f *fixture) create(t *testing.T, start time.Time) *entity.Hangout {
	t.Helper()
	h, err := f.svc.Create(context.Background(), "alice", f.request(start))
	require.NoError(t, err)
	return h
}

func (f *fixture) accepted(t *testing.T, start time.Time) *entity.Hangout {
	t.Helper()
	h := f.create(t, start)
	h, err := f.svc.Respond(context.Background(), h.ID, "bob", entity.DecisionAccepted)
	require.NoError(t, err)
	return h
}

func TestCreate(t *testing.T) {
	f := newFixture()
	start := f.now.Add(24 * time.Hour)

	h := f.create(t, start)

	assert.Equal(t, "h1", h.ID)
	assert.Equal(t, entity.StatusPending, h.Status)
	assert.Equal(t, "default-alice", h.CreatorPersonaID)
	assert.Nil(t, h.CalendarEventID)

	stored, err := f.repo.GetRequest(context.Background(), h.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.StatusPending, stored.Status)

	assert.Equal(t, []sentNotification{{"bob", notificationentity.KindNewHangoutRequest, "h1"}}, f.notifier.all())
}

func TestCreate_ValidationHappensBeforeIO(t *testing.T) {
	start := time.Date(2025, time.March, 11, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		creator string
		mutate  func(*dto.CreateHangoutRequest)
	}{
		{"start equals end", "alice", func(r *dto.CreateHangoutRequest) { r.EndDate = r.StartDate }},
		{"end before start", "alice", func(r *dto.CreateHangoutRequest) { r.EndDate = r.StartDate.Add(-time.Minute) }},
		{"same creator and invitee", "bob", func(r *dto.CreateHangoutRequest) {}},
		{"missing invitee", "alice", func(r *dto.CreateHangoutRequest) { r.InviteeUserID = "" }},
		{"blank title", "alice", func(r *dto.CreateHangoutRequest) { r.Title = "  " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := f.request(start)
			tt.mutate(req)

			_, err := f.svc.Create(context.Background(), tt.creator, req)

			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrValidation))
			assert.Zero(t, f.repo.puts)
			assert.Zero(t, f.personas.calls)
			assert.Zero(t, f.availability.calls)
			assert.Empty(t, f.notifier.all())
		})
	}
}

func TestCreate_InviteePersona(t *testing.T) {
	tests := []struct {
		name      string
		personaID string
		want      string
		wantErr   bool
	}{
		{"omitted", "", "", false},
		{"one of the invitee's", "bob-work", "bob-work", false},
		{"unknown", "missing", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := f.request(f.now.Add(time.Hour))
			req.InviteePersonaID = tt.personaID

			h, err := f.svc.Create(context.Background(), "alice", req)

			if tt.wantErr {
				assert.True(t, errors.IsCode(err, errors.ErrValidation))
				assert.Zero(t, f.repo.puts)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.InviteePersonaID)
		})
	}
}

func TestCreate_MissingPersona(t *testing.T) {
	f := newFixture()
	req := f.request(f.now.Add(time.Hour))
	req.CreatorPersonaID = "missing"

	_, err := f.svc.Create(context.Background(), "alice", req)

	assert.True(t, errors.IsCode(err, errors.ErrValidation))
	assert.Zero(t, f.repo.puts)
}

func TestCreate_CreatorCalendar(t *testing.T) {
	tests := []struct {
		name    string
		free    bool
		known   bool
		wantErr errors.ErrorCode
	}{
		{"free", true, true, ""},
		{"busy", false, true, errors.ErrCreatorBusy},
		{"unknown calendar proceeds", false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.availability.free, f.availability.known = tt.free, tt.known

			h, err := f.svc.Create(context.Background(), "alice", f.request(f.now.Add(time.Hour)))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, tt.wantErr))
				assert.True(t, errors.IsValidation(err))
				assert.Zero(t, f.repo.puts)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entity.StatusPending, h.Status)
		})
	}
}

func TestCreate_PersistenceFailure(t *testing.T) {
	f := newFixture()
	f.repo.failPut = true

	_, err := f.svc.Create(context.Background(), "alice", f.request(f.now.Add(time.Hour)))

	assert.True(t, errors.IsCode(err, errors.ErrPersistence))
	assert.Empty(t, f.notifier.all())
}

func TestRespond_Accept(t *testing.T) {
	f := newFixture()
	h := f.create(t, f.now.Add(24*time.Hour))

	h, err := f.svc.Respond(context.Background(), h.ID, "bob", entity.DecisionAccepted)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusAccepted, h.Status)
	require.NotNil(t, h.CalendarEventID)
	require.NotNil(t, h.InviteeEventID)
	require.NotNil(t, h.CreatorEventID)
	assert.Equal(t, *h.InviteeEventID, *h.CalendarEventID, "invitee's event is created first")

	created, _ := f.calendar.calls()
	assert.Equal(t, []string{"bob", "alice"}, created)

	sent := f.notifier.all()
	require.Len(t, sent, 2)
	assert.Equal(t, sentNotification{"alice", notificationentity.KindHangoutAccepted, h.ID}, sent[1])
}

func TestRespond_Decline(t *testing.T) {
	f := newFixture()
	h := f.create(t, f.now.Add(24*time.Hour))

	h, err := f.svc.Respond(context.Background(), h.ID, "bob", entity.DecisionDeclined)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusDeclined, h.Status)
	created, _ := f.calendar.calls()
	assert.Empty(t, created)
	assert.Equal(t, notificationentity.KindHangoutDeclined, f.notifier.all()[1].kind)
}

func TestRespond_SecondCallIsInvalidTransition(t *testing.T) {
	for _, first := range []entity.Decision{entity.DecisionAccepted, entity.DecisionDeclined} {
		for _, second := range []entity.Decision{entity.DecisionAccepted, entity.DecisionDeclined} {
			t.Run(string(first)+" then "+string(second), func(t *testing.T) {
				f := newFixture()
				h := f.create(t, f.now.Add(24*time.Hour))
				_, err := f.svc.Respond(context.Background(), h.ID, "bob", first)
				require.NoError(t, err)

				created, _ := f.calendar.calls()
				sent := len(f.notifier.all())
				puts := f.repo.puts

				_, err = f.svc.Respond(context.Background(), h.ID, "bob", second)

				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrInvalidTransition))
				assert.True(t, stderrors.Is(err, entity.ErrInvalidTransition))
				createdAfter, _ := f.calendar.calls()
				assert.Equal(t, created, createdAfter)
				assert.Len(t, f.notifier.all(), sent)
				assert.Equal(t, puts, f.repo.puts)
			})
		}
	}
}

func TestRespond_CalendarFailuresDoNotFailAccept(t *testing.T) {
	f := newFixture()
	transport := &calendarservice.TransportError{Op: "create", UserID: "x", Err: stderrors.New("502")}
	f.calendar.createErr["alice"] = transport
	f.calendar.createErr["bob"] = transport
	h := f.create(t, f.now.Add(24*time.Hour))

	h, err := f.svc.Respond(context.Background(), h.ID, "bob", entity.DecisionAccepted)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, h.Status)
	assert.Nil(t, h.CalendarEventID)

	stored, _ := f.repo.GetRequest(context.Background(), h.ID)
	assert.Equal(t, entity.StatusAccepted, stored.Status)
	assert.Nil(t, stored.CalendarEventID)
}

func TestRespond_InviteeCalendarFailsCreatorSucceeds(t *testing.T) {
	f := newFixture()
	f.calendar.createErr["bob"] = calendarservice.ErrAccessUnavailable
	h := f.create(t, f.now.Add(24*time.Hour))

	h, err := f.svc.Respond(context.Background(), h.ID, "bob", entity.DecisionAccepted)

	require.NoError(t, err)
	require.NotNil(t, h.CalendarEventID)
	assert.Equal(t, *h.CreatorEventID, *h.CalendarEventID)
	assert.Nil(t, h.InviteeEventID)
}

func TestRespond_Authorization(t *testing.T) {
	f := newFixture()
	h := f.create(t, f.now.Add(24*time.Hour))

	_, err := f.svc.Respond(context.Background(), h.ID, "alice", entity.DecisionAccepted)
	assert.True(t, errors.IsCode(err, errors.ErrForbidden))

	_, err = f.svc.Respond(context.Background(), "nope", "bob", entity.DecisionAccepted)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))

	_, err = f.svc.Respond(context.Background(), h.ID, "bob", entity.Decision("maybe"))
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}

func TestRespond_PersistenceFailureRollsBackEvents(t *testing.T) {
	f := newFixture()
	h := f.create(t, f.now.Add(24*time.Hour))
	f.repo.failPut = true

	_, err := f.svc.Respond(context.Background(), h.ID, "bob", entity.DecisionAccepted)

	assert.True(t, errors.IsCode(err, errors.ErrPersistence))
	_, deleted := f.calendar.calls()
	assert.Len(t, deleted, 2)
	stored, _ := f.repo.GetRequest(context.Background(), h.ID)
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Len(t, f.notifier.all(), 1, "no decision notification")
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(*fixture, *testing.T) *entity.Hangout
		actor   string
		wantErr errors.ErrorCode
	}{
		{"pending by creator", func(f *fixture, t *testing.T) *entity.Hangout { return f.create(t, f.now.Add(time.Hour)) }, "alice", ""},
		{"pending by invitee", func(f *fixture, t *testing.T) *entity.Hangout { return f.create(t, f.now.Add(time.Hour)) }, "bob", ""},
		{"accepted", func(f *fixture, t *testing.T) *entity.Hangout { return f.accepted(t, f.now.Add(time.Hour)) }, "alice", ""},
		{"declined", func(f *fixture, t *testing.T) *entity.Hangout {
			h := f.create(t, f.now.Add(time.Hour))
			h, err := f.svc.Respond(context.Background(), h.ID, "bob", entity.DecisionDeclined)
			require.NoError(t, err)
			return h
		}, "alice", errors.ErrInvalidTransition},
		{"already cancelled", func(f *fixture, t *testing.T) *entity.Hangout {
			h := f.create(t, f.now.Add(time.Hour))
			h, err := f.svc.Cancel(context.Background(), h.ID, "alice")
			require.NoError(t, err)
			return h
		}, "alice", errors.ErrInvalidTransition},
		{"completed", func(f *fixture, t *testing.T) *entity.Hangout {
			h := f.accepted(t, f.now.Add(time.Hour))
			f.now = f.now.Add(3 * time.Hour)
			h, err := f.svc.MarkCompleted(context.Background(), h.ID, "alice")
			require.NoError(t, err)
			return h
		}, "alice", errors.ErrInvalidTransition},
		{"stranger", func(f *fixture, t *testing.T) *entity.Hangout { return f.create(t, f.now.Add(time.Hour)) }, "carol", errors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			h := tt.prepare(f, t)
			_, deletedBefore := f.calendar.calls()

			got, err := f.svc.Cancel(context.Background(), h.ID, tt.actor)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, tt.wantErr))
				_, deletedAfter := f.calendar.calls()
				assert.Equal(t, deletedBefore, deletedAfter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entity.StatusCancelled, got.Status)

			sent := f.notifier.all()
			last := sent[len(sent)-1]
			assert.Equal(t, notificationentity.KindHangoutCancelled, last.kind)
			assert.Equal(t, h.Counterpart(tt.actor), last.userID)
		})
	}
}

func TestCancel_DeletesBothEventsIndependently(t *testing.T) {
	f := newFixture()
	h := f.accepted(t, f.now.Add(24*time.Hour))
	f.calendar.deleteErr["bob"] = &calendarservice.TransportError{Op: "delete", UserID: "bob", Err: stderrors.New("timeout")}

	got, err := f.svc.Cancel(context.Background(), h.ID, "alice")

	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
	_, deleted := f.calendar.calls()
	assert.ElementsMatch(t, []string{"alice/" + *h.CreatorEventID, "bob/" + *h.InviteeEventID}, deleted)

	stored, _ := f.repo.GetRequest(context.Background(), h.ID)
	assert.Equal(t, entity.StatusCancelled, stored.Status)
}

func TestCancel_OnlyTouchesCalendarsHoldingAnEvent(t *testing.T) {
	f := newFixture()
	f.calendar.createErr["bob"] = calendarservice.ErrAccessUnavailable
	h := f.accepted(t, f.now.Add(24*time.Hour))
	require.Nil(t, h.InviteeEventID)

	_, err := f.svc.Cancel(context.Background(), h.ID, "alice")

	require.NoError(t, err)
	_, deleted := f.calendar.calls()
	assert.Equal(t, []string{"alice/" + *h.CreatorEventID}, deleted)
}

func TestCancel_PendingHasNoEventsToDelete(t *testing.T) {
	f := newFixture()
	h := f.create(t, f.now.Add(time.Hour))

	_, err := f.svc.Cancel(context.Background(), h.ID, "alice")

	require.NoError(t, err)
	_, deleted := f.calendar.calls()
	assert.Empty(t, deleted)
}

func TestCancel_PersistenceFailureSkipsSideEffects(t *testing.T) {
	f := newFixture()
	h := f.accepted(t, f.now.Add(24*time.Hour))
	sent := len(f.notifier.all())
	f.repo.failPut = true

	_, err := f.svc.Cancel(context.Background(), h.ID, "alice")

	assert.True(t, errors.IsCode(err, errors.ErrPersistence))
	_, deleted := f.calendar.calls()
	assert.Empty(t, deleted)
	assert.Len(t, f.notifier.all(), sent)
}

func TestDelete_CleansUpCalendarsBeforeRemoving(t *testing.T) {
	f := newFixture()
	h := f.accepted(t, f.now.Add(24*time.Hour))
	f.calendar.deleteErr["bob"] = calendarservice.ErrAccessUnavailable

	err := f.svc.Delete(context.Background(), h.ID, "bob")

	require.NoError(t, err)
	_, deleted := f.calendar.calls()
	assert.ElementsMatch(t, []string{"alice/" + *h.CreatorEventID, "bob/" + *h.InviteeEventID}, deleted)

	stored, err := f.repo.GetRequest(context.Background(), h.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDelete_PendingWithoutEvents(t *testing.T) {
	f := newFixture()
	h := f.create(t, f.now.Add(time.Hour))

	require.NoError(t, f.svc.Delete(context.Background(), h.ID, "alice"))

	_, deleted := f.calendar.calls()
	assert.Empty(t, deleted)
	_, err := f.svc.Get(context.Background(), h.ID, "alice")
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
}

func TestDelete_Errors(t *testing.T) {
	f := newFixture()
	h := f.accepted(t, f.now.Add(24*time.Hour))

	err := f.svc.Delete(context.Background(), h.ID, "carol")
	assert.True(t, errors.IsCode(err, errors.ErrForbidden))
	_, deleted := f.calendar.calls()
	assert.Empty(t, deleted)

	err = f.svc.Delete(context.Background(), "nope", "alice")
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))

	f.repo.failDelete = true
	err = f.svc.Delete(context.Background(), h.ID, "alice")
	assert.True(t, errors.IsCode(err, errors.ErrPersistence))
	stored, _ := f.repo.GetRequest(context.Background(), h.ID)
	assert.NotNil(t, stored)
}

func TestMarkCompleted(t *testing.T) {
	f := newFixture()
	h := f.accepted(t, f.now.Add(time.Hour))

	_, err := f.svc.MarkCompleted(context.Background(), h.ID, "bob")
	assert.True(t, errors.IsCode(err, errors.ErrValidation), "not ended yet")

	f.now = f.now.Add(2 * time.Hour)
	got, err := f.svc.MarkCompleted(context.Background(), h.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, got.Status)

	pending := f.create(t, f.now.Add(-3*time.Hour))
	_, err = f.svc.MarkCompleted(context.Background(), pending.ID, "alice")
	assert.True(t, errors.IsCode(err, errors.ErrInvalidTransition))
}

func TestGet(t *testing.T) {
	f := newFixture()
	h := f.create(t, f.now.Add(time.Hour))

	got, err := f.svc.Get(context.Background(), h.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, h.ID, got.ID)

	_, err = f.svc.Get(context.Background(), h.ID, "carol")
	assert.True(t, errors.IsCode(err, errors.ErrForbidden))
}

func TestConcurrentAcceptAndCancel(t *testing.T) {
	f := newFixture()
	h := f.create(t, f.now.Add(24*time.Hour))

	var wg sync.WaitGroup
	var acceptErr, cancelErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, acceptErr = f.svc.Respond(context.Background(), h.ID, "bob", entity.DecisionAccepted)
	}()
	go func() {
		defer wg.Done()
		_, cancelErr = f.svc.Cancel(context.Background(), h.ID, "alice")
	}()
	wg.Wait()

	require.NoError(t, cancelErr)
	stored, _ := f.repo.GetRequest(context.Background(), h.ID)
	assert.Equal(t, entity.StatusCancelled, stored.Status)

	// Either order is valid; accept-then-cancel removes the events it placed.
	created, deleted := f.calendar.calls()
	if acceptErr == nil {
		assert.Len(t, deleted, len(created))
	} else {
		assert.True(t, errors.IsCode(acceptErr, errors.ErrInvalidTransition))
		assert.Empty(t, created)
	}
}
