package dto

import "time"

type CreateHangoutRequest struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Location         *string   `json:"location"`
	InviteeUserID    string    `json:"invitee_user_id"`
	CreatorPersonaID string    `json:"creator_persona_id"`
	InviteePersonaID string    `json:"invitee_persona_id"`
}

type RespondRequest struct {
	Decision string `json:"decision"`
}

type HangoutResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Location         *string   `json:"location,omitempty"`
	CreatorUserID    string    `json:"creator_user_id"`
	CreatorPersonaID string    `json:"creator_persona_id"`
	InviteeUserID    string    `json:"invitee_user_id"`
	InviteePersonaID string    `json:"invitee_persona_id"`
	Status           string    `json:"status"`
	// DisplayStatus is "completed" for accepted hangouts that have ended.
	DisplayStatus   string    `json:"display_status"`
	CalendarEventID *string   `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type HangoutListResponse struct {
	Pending  []HangoutResponse `json:"pending"`
	Upcoming []HangoutResponse `json:"upcoming"`
	Past     []HangoutResponse `json:"past"`
}
