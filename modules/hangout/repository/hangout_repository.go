package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"hangout-api/core/database"
	"hangout-api/modules/hangout/entity"
)

// HangoutRepository is the durable store for hangout requests.
type HangoutRepository interface {
	// GetRequest returns nil, nil when the request does not exist.
	GetRequest(ctx context.Context, id string) (*entity.Hangout, error)
	// PutRequest inserts a request or replaces its mutable fields.
	PutRequest(ctx context.Context, hangout *entity.Hangout) error
	// QueryRequestsByParty returns every request where userID is creator or invitee.
	QueryRequestsByParty(ctx context.Context, userID string) ([]entity.Hangout, error)
	// DeleteRequest removes a request. Deleting a missing request is not an error.
	DeleteRequest(ctx context.Context, id string) error
}

type hangoutRepository struct {
	db database.IDatabase
}

func NewHangoutRepository(db database.IDatabase) HangoutRepository {
	return &hangoutRepository{db: db}
}

const hangoutColumns = `id, title, description, start_date, end_date, location,
	creator_user_id, creator_persona_id, invitee_user_id, invitee_persona_id,
	status, calendar_event_id, creator_event_id, invitee_event_id, created_at, updated_at`

func (r *hangoutRepository) GetRequest(ctx context.Context, id string) (*entity.Hangout, error) {
	query := `SELECT ` + hangoutColumns + ` FROM hangouts WHERE id = $1`

	var hangout entity.Hangout
	if err := r.db.GetContext(ctx, &hangout, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &hangout, nil
}

func (r *hangoutRepository) PutRequest(ctx context.Context, hangout *entity.Hangout) error {
	query := `
		INSERT INTO hangouts (` + hangoutColumns + `)
		VALUES (:id, :title, :description, :start_date, :end_date, :location,
			:creator_user_id, :creator_persona_id, :invitee_user_id, :invitee_persona_id,
			:status, :calendar_event_id, :creator_event_id, :invitee_event_id, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			calendar_event_id = EXCLUDED.calendar_event_id,
			creator_event_id = EXCLUDED.creator_event_id,
			invitee_event_id = EXCLUDED.invitee_event_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.NamedExecContext(ctx, query, hangout)
	return err
}

func (r *hangoutRepository) QueryRequestsByParty(ctx context.Context, userID string) ([]entity.Hangout, error) {
	query := `
		SELECT ` + hangoutColumns + `
		FROM hangouts
		WHERE creator_user_id = $1 OR invitee_user_id = $1
		ORDER BY start_date ASC
	`
	hangouts := []entity.Hangout{}
	if err := r.db.SelectContext(ctx, &hangouts, query, userID); err != nil {
		return nil, err
	}
	return hangouts, nil
}

func (r *hangoutRepository) DeleteRequest(ctx context.Context, id string) error {
	query := `DELETE FROM hangouts WHERE id = $1`
	return r.db.ExecContext(ctx, query, id)
}
