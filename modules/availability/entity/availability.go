package entity

import "time"

// TimeSlot is a half-open time range [Start, End). It is used for busy
// intervals, candidate slots and returned windows alike.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Valid reports whether the slot has a positive length.
func (s TimeSlot) Valid() bool {
	return s.End.After(s.Start)
}

type AvailabilityMode string

const (
	// ModeVerified means both parties' busy data was read.
	ModeVerified AvailabilityMode = "verified"
	// ModeUnverifiedSample means at least one party's calendar could not be
	// read and the windows are a fixed sample, not a checked result.
	ModeUnverifiedSample AvailabilityMode = "unverified_sample"
)

type AvailabilityResult struct {
	Windows          []TimeSlot       `json:"windows"`
	Mode             AvailabilityMode `json:"mode"`
	Verified         bool             `json:"verified"`
	UnavailableUsers []string         `json:"unavailable_users,omitempty"`
}
