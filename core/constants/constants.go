package constants

import "time"

const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes

	DefaultTimeout         = 15 * time.Second
	CalendarRequestTimeout = 10 * time.Second
	ShutdownTimeout        = 10 * time.Second

	// Request locks are held for the duration of one lifecycle transition.
	RequestLockTTL   = 30 * time.Second
	RequestLockRetry = 50 * time.Millisecond

	NotificationQueue = "notifications"

	OAuthStateTTL = 10 * time.Minute

	ContextTokenData = "token_data"

	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)
