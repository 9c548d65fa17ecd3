package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"hangout-api/core/errors"
	availabilityEntity "hangout-api/modules/availability/entity"
	"hangout-api/modules/calendar/dto"
	"hangout-api/modules/calendar/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	busy []availabilityEntity.TimeSlot
	err  error
}

func (s *stubProvider) HasAccess(context.Context, string) bool { return s.err == nil }

func (s *stubProvider) GetBusyIntervals(context.Context, string, time.Time, time.Time) ([]availabilityEntity.TimeSlot, error) {
	return s.busy, s.err
}

func (s *stubProvider) CreateEvent(context.Context, string, EventInput) (string, error) {
	return "", s.err
}

func (s *stubProvider) DeleteEvent(context.Context, string, string) error {
	return s.err
}

func TestCalendarService_ConnectionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewCalendarService(repository.NewMemoryCalendarRepository(), &stubProvider{})

	_, err := svc.SaveGoogleConnection(ctx, "alice", &dto.SaveConnectionRequest{})
	assert.True(t, errors.IsCode(err, errors.ErrValidation))

	first, err := svc.SaveGoogleConnection(ctx, "alice", &dto.SaveConnectionRequest{AccessToken: "a", CalendarEmail: "alice@example.com"})
	require.NoError(t, err)

	second, err := svc.SaveGoogleConnection(ctx, "alice", &dto.SaveConnectionRequest{AccessToken: "b", CalendarEmail: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	connections, err := svc.GetConnections(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, connections, 1)
	assert.Equal(t, "google", connections[0].Provider)

	assert.True(t, errors.IsCode(svc.DisconnectCalendar(ctx, "alice", "outlook"), errors.ErrInvalidInput))
	require.NoError(t, svc.DisconnectCalendar(ctx, "alice", "google"))

	connections, err = svc.GetConnections(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, connections)
}

func TestCalendarService_GetBusyMapsProviderErrors(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
	}{
		{"access unavailable", ErrAccessUnavailable, errors.ErrCalendarAccessUnavailable},
		{"transport", &TransportError{Op: "freebusy", UserID: "alice", Err: stderrors.New("reset")}, errors.ErrCalendarTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCalendarService(repository.NewMemoryCalendarRepository(), &stubProvider{err: tt.err})
			_, err := svc.GetBusy(ctx, "alice", start, end)
			assert.True(t, errors.IsCode(err, tt.code))
		})
	}

	svc := NewCalendarService(repository.NewMemoryCalendarRepository(), &stubProvider{
		busy: []availabilityEntity.TimeSlot{{Start: start.Add(time.Hour), End: start.Add(2 * time.Hour)}},
	})
	resp, err := svc.GetBusy(ctx, "alice", start, end)
	require.NoError(t, err)
	assert.Len(t, resp.Busy, 1)

	_, err = svc.GetBusy(ctx, "alice", end, start)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}
