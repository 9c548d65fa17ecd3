package entity

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHangoutStatus_CanTransitionTo(t *testing.T) {
	all := []HangoutStatus{StatusPending, StatusAccepted, StatusDeclined, StatusCancelled, StatusCompleted}
	allowed := map[HangoutStatus]map[HangoutStatus]bool{
		StatusPending:  {StatusAccepted: true, StatusDeclined: true, StatusCancelled: true},
		StatusAccepted: {StatusCancelled: true, StatusCompleted: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusDeclined.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
}

func TestHangout_Transition(t *testing.T) {
	now := time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)
	h := &Hangout{Status: StatusDeclined, UpdatedAt: now.Add(-time.Hour)}

	err := h.Transition(StatusAccepted, now)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrInvalidTransition))
	assert.Equal(t, StatusDeclined, h.Status)
	assert.Equal(t, now.Add(-time.Hour), h.UpdatedAt)

	h.Status = StatusPending
	require.NoError(t, h.Transition(StatusAccepted, now))
	assert.Equal(t, StatusAccepted, h.Status)
	assert.Equal(t, now, h.UpdatedAt)
}

func TestHangout_Parties(t *testing.T) {
	h := &Hangout{CreatorUserID: "alice", InviteeUserID: "bob"}

	assert.True(t, h.IsParty("alice"))
	assert.True(t, h.IsParty("bob"))
	assert.False(t, h.IsParty("carol"))
	assert.False(t, h.IsParty(""))

	assert.Equal(t, "bob", h.Counterpart("alice"))
	assert.Equal(t, "alice", h.Counterpart("bob"))
	assert.Empty(t, h.Counterpart("carol"))
}

func TestHangout_RecordEvent(t *testing.T) {
	h := &Hangout{CreatorUserID: "alice", InviteeUserID: "bob"}
	assert.Empty(t, h.EventFor("alice"))

	h.RecordEvent("bob", "evt-bob")
	h.RecordEvent("alice", "evt-alice")
	h.RecordEvent("carol", "evt-carol")

	require.NotNil(t, h.CalendarEventID)
	assert.Equal(t, "evt-bob", *h.CalendarEventID)
	assert.Equal(t, "evt-alice", h.EventFor("alice"))
	assert.Equal(t, "evt-bob", h.EventFor("bob"))
	assert.Empty(t, h.EventFor("carol"))

	legacy := &Hangout{CreatorUserID: "alice", InviteeUserID: "bob", CalendarEventID: h.CalendarEventID}
	assert.Equal(t, "evt-bob", legacy.EventFor("alice"))
	assert.Equal(t, "evt-bob", legacy.EventFor("bob"))
}

func TestHangout_EventForOnlyOneParty(t *testing.T) {
	h := &Hangout{CreatorUserID: "alice", InviteeUserID: "bob"}
	h.RecordEvent("alice", "evt-alice")

	assert.Equal(t, "evt-alice", h.EventFor("alice"))
	assert.Empty(t, h.EventFor("bob"))
}

func TestHangout_IsElapsed(t *testing.T) {
	start := time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC)
	h := &Hangout{Status: StatusAccepted, StartDate: start, EndDate: start.Add(time.Hour)}

	assert.False(t, h.IsElapsed(start.Add(30*time.Minute)))
	assert.True(t, h.HasStarted(start))
	assert.True(t, h.IsElapsed(start.Add(time.Hour)))

	h.Status = StatusPending
	assert.False(t, h.IsElapsed(start.Add(2*time.Hour)))
}
