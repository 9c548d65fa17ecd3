package entity

import (
	"time"

	"hangout-api/core/entity"
)

const ProviderGoogle = "google"

// CalendarConnection stores a user's calendar provider credentials.
type CalendarConnection struct {
	entity.BaseEntity
	UserID         string     `db:"user_id" json:"user_id"`
	Provider       string     `db:"provider" json:"provider"`
	AccessToken    string     `db:"access_token" json:"-"`
	RefreshToken   string     `db:"refresh_token" json:"-"`
	TokenExpiresAt *time.Time `db:"token_expires_at" json:"token_expires_at,omitempty"`
	CalendarEmail  string     `db:"calendar_email" json:"calendar_email"`
	IsActive       bool       `db:"is_active" json:"is_active"`
}

// Usable reports whether the connection holds any credential worth trying.
func (c *CalendarConnection) Usable() bool {
	return c != nil && c.IsActive && (c.AccessToken != "" || c.RefreshToken != "")
}
