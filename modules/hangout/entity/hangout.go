package entity

import (
	stderrors "errors"
	"fmt"
	"time"
)

type HangoutStatus string

const (
	StatusPending   HangoutStatus = "pending"
	StatusAccepted  HangoutStatus = "accepted"
	StatusDeclined  HangoutStatus = "declined"
	StatusCancelled HangoutStatus = "cancelled"
	StatusCompleted HangoutStatus = "completed"
)

var ErrInvalidTransition = stderrors.New("invalid status transition")

var transitions = map[HangoutStatus][]HangoutStatus{
	StatusPending:  {StatusAccepted, StatusDeclined, StatusCancelled},
	StatusAccepted: {StatusCancelled, StatusCompleted},
}

func (s HangoutStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s HangoutStatus) CanTransitionTo(next HangoutStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s HangoutStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Decision is the invitee's answer to a pending hangout.
type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionDeclined Decision = "declined"
)

func (d Decision) Valid() bool {
	return d == DecisionAccepted || d == DecisionDeclined
}

func (d Decision) Status() HangoutStatus {
	return HangoutStatus(d)
}

type Hangout struct {
	ID               string        `db:"id" json:"id"`
	Title            string        `db:"title" json:"title"`
	Description      string        `db:"description" json:"description"`
	StartDate        time.Time     `db:"start_date" json:"start_date"`
	EndDate          time.Time     `db:"end_date" json:"end_date"`
	Location         *string       `db:"location" json:"location,omitempty"`
	CreatorUserID    string        `db:"creator_user_id" json:"creator_user_id"`
	CreatorPersonaID string        `db:"creator_persona_id" json:"creator_persona_id"`
	InviteeUserID    string        `db:"invitee_user_id" json:"invitee_user_id"`
	InviteePersonaID string        `db:"invitee_persona_id" json:"invitee_persona_id"`
	Status           HangoutStatus `db:"status" json:"status"`
	// CalendarEventID is the first event ID obtained on acceptance.
	CalendarEventID *string   `db:"calendar_event_id" json:"calendar_event_id,omitempty"`
	CreatorEventID  *string   `db:"creator_event_id" json:"creator_event_id,omitempty"`
	InviteeEventID  *string   `db:"invitee_event_id" json:"invitee_event_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (h *Hangout) Duration() time.Duration {
	return h.EndDate.Sub(h.StartDate)
}

func (h *Hangout) IsParty(userID string) bool {
	return userID != "" && (userID == h.CreatorUserID || userID == h.InviteeUserID)
}

// Counterpart returns the other party, or "" when userID is not a party.
func (h *Hangout) Counterpart(userID string) string {
	switch userID {
	case h.CreatorUserID:
		return h.InviteeUserID
	case h.InviteeUserID:
		return h.CreatorUserID
	}
	return ""
}

func (h *Hangout) HasStarted(now time.Time) bool {
	return !h.StartDate.After(now)
}

// IsElapsed reports whether an accepted hangout has ended and may be shown as completed.
func (h *Hangout) IsElapsed(now time.Time) bool {
	return h.Status == StatusAccepted && !h.EndDate.After(now)
}

// Transition moves h to next, or returns ErrInvalidTransition leaving h untouched.
func (h *Hangout) Transition(next HangoutStatus, now time.Time) error {
	if !h.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, h.Status, next)
	}
	h.Status = next
	h.UpdatedAt = now
	return nil
}

// RecordEvent stores a party's calendar event ID. The first ID recorded also
// becomes CalendarEventID.
func (h *Hangout) RecordEvent(userID, eventID string) {
	id := eventID
	switch userID {
	case h.CreatorUserID:
		h.CreatorEventID = &id
	case h.InviteeUserID:
		h.InviteeEventID = &id
	default:
		return
	}
	if h.CalendarEventID == nil {
		h.CalendarEventID = &id
	}
}

// EventFor returns the event to remove from userID's calendar on cancellation.
// CalendarEventID is only used for records that carry no per-party IDs.
func (h *Hangout) EventFor(userID string) string {
	var own *string
	switch userID {
	case h.CreatorUserID:
		own = h.CreatorEventID
	case h.InviteeUserID:
		own = h.InviteeEventID
	default:
		return ""
	}
	if own != nil {
		return *own
	}
	if h.CreatorEventID == nil && h.InviteeEventID == nil && h.CalendarEventID != nil {
		return *h.CalendarEventID
	}
	return ""
}
