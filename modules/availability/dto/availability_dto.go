package dto

import (
	"time"

	"hangout-api/modules/availability/entity"
)

// FindAvailabilityRequest asks for windows shared with another user.
// RangeStart and RangeEnd are optional; without them the default search range is used.
type FindAvailabilityRequest struct {
	UserID          string     `json:"user_id"`
	RangeStart      *time.Time `json:"range_start"`
	RangeEnd        *time.Time `json:"range_end"`
	DurationMinutes int        `json:"duration_minutes"`
}

type WindowResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type FindAvailabilityResponse struct {
	Windows          []WindowResponse `json:"windows"`
	Mode             string           `json:"mode"`
	Verified         bool             `json:"verified"`
	UnavailableUsers []string         `json:"unavailable_users,omitempty"`
	RangeStart       time.Time        `json:"range_start"`
	RangeEnd         time.Time        `json:"range_end"`
}

func ToFindAvailabilityResponse(result *entity.AvailabilityResult, rangeStart, rangeEnd time.Time) *FindAvailabilityResponse {
	windows := make([]WindowResponse, 0, len(result.Windows))
	for _, w := range result.Windows {
		windows = append(windows, WindowResponse{Start: w.Start, End: w.End})
	}
	return &FindAvailabilityResponse{
		Windows:          windows,
		Mode:             string(result.Mode),
		Verified:         result.Verified,
		UnavailableUsers: result.UnavailableUsers,
		RangeStart:       rangeStart,
		RangeEnd:         rangeEnd,
	}
}
