package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"hangout-api/core/errors"
	availabilityEntity "hangout-api/modules/availability/entity"
)

// ErrAccessUnavailable means the user's calendar cannot be used at all: no
// connection, or credentials the provider no longer accepts.
var ErrAccessUnavailable = stderrors.New("calendar access unavailable")

// TransportError is any other failure talking to the calendar provider.
type TransportError struct {
	Op     string
	UserID string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calendar %s for user %s: %v", e.Op, e.UserID, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Location    *string
}

// CalendarAccessProvider reads busy time from and writes events to a user's
// external calendar.
type CalendarAccessProvider interface {
	HasAccess(ctx context.Context, userID string) bool
	GetBusyIntervals(ctx context.Context, userID string, start, end time.Time) ([]availabilityEntity.TimeSlot, error)
	CreateEvent(ctx context.Context, userID string, input EventInput) (string, error)
	DeleteEvent(ctx context.Context, userID, eventID string) error
}

// ToAppError converts provider errors for HTTP responses.
func ToAppError(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, ErrAccessUnavailable) {
		return errors.NewAppError(errors.ErrCalendarAccessUnavailable, "Calendar access unavailable, reconnect your calendar", err)
	}
	var te *TransportError
	if stderrors.As(err, &te) {
		return errors.NewAppError(errors.ErrCalendarTransport, "Calendar provider request failed", err)
	}
	return err
}
