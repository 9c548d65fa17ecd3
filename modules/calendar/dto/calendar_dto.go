package dto

import "time"

// ========== Calendar Connection DTOs ==========

// SaveConnectionRequest stores tokens obtained by the client's OAuth flow.
type SaveConnectionRequest struct {
	AccessToken    string     `json:"access_token"`
	RefreshToken   string     `json:"refresh_token"`
	TokenExpiresAt *time.Time `json:"token_expires_at"`
	CalendarEmail  string     `json:"calendar_email"`
}

type CalendarConnectionResponse struct {
	ID            string `json:"id"`
	Provider      string `json:"provider"`
	CalendarEmail string `json:"calendar_email"`
	IsActive      bool   `json:"is_active"`
	ConnectedAt   string `json:"connected_at"`
}

type CalendarConnectionListResponse struct {
	Connections []CalendarConnectionResponse `json:"connections"`
}

type AuthURLResponse struct {
	URL string `json:"url"`
}

// ========== Busy DTOs ==========

type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type UserBusyResponse struct {
	UserID string     `json:"user_id"`
	Busy   []TimeSlot `json:"busy"`
}
