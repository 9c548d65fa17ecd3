package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"hangout-api/core/database"
	"hangout-api/modules/calendar/entity"
)

type CalendarRepository interface {
	// UpsertConnection creates or replaces the user's connection for conn.Provider.
	UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) error
	// GetActiveConnection returns nil, nil when the user has no active connection.
	GetActiveConnection(ctx context.Context, userID, provider string) (*entity.CalendarConnection, error)
	ListConnections(ctx context.Context, userID string) ([]entity.CalendarConnection, error)
	UpdateTokens(ctx context.Context, conn *entity.CalendarConnection) error
	DeactivateConnection(ctx context.Context, userID, provider string) error
}

type calendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

const connectionColumns = `id, user_id, provider, access_token, refresh_token, token_expires_at,
	calendar_email, is_active, created_at, updated_at`

func (r *calendarRepository) UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		INSERT INTO calendar_connections (` + connectionColumns + `)
		VALUES (:id, :user_id, :provider, :access_token, :refresh_token, :token_expires_at,
			:calendar_email, :is_active, :created_at, :updated_at)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			calendar_email = EXCLUDED.calendar_email,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.NamedExecContext(ctx, query, conn)
	return err
}

func (r *calendarRepository) GetActiveConnection(ctx context.Context, userID, provider string) (*entity.CalendarConnection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE user_id = $1 AND provider = $2 AND is_active = true
	`
	var conn entity.CalendarConnection
	if err := r.db.GetContext(ctx, &conn, query, userID, provider); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *calendarRepository) ListConnections(ctx context.Context, userID string) ([]entity.CalendarConnection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE user_id = $1 AND is_active = true
		ORDER BY created_at DESC
	`
	connections := []entity.CalendarConnection{}
	if err := r.db.SelectContext(ctx, &connections, query, userID); err != nil {
		return nil, err
	}
	return connections, nil
}

func (r *calendarRepository) UpdateTokens(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $1, refresh_token = $2, token_expires_at = $3, updated_at = NOW()
		WHERE user_id = $4 AND provider = $5
	`
	return r.db.ExecContext(ctx, query,
		conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt, conn.UserID, conn.Provider,
	)
}

// DeactivateConnection soft deletes a calendar connection
func (r *calendarRepository) DeactivateConnection(ctx context.Context, userID, provider string) error {
	query := `
		UPDATE calendar_connections
		SET is_active = false, updated_at = NOW()
		WHERE user_id = $1 AND provider = $2
	`
	return r.db.ExecContext(ctx, query, userID, provider)
}
