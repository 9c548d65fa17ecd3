package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"hangout-api/core/database"
	"hangout-api/modules/persona/entity"

	"github.com/google/uuid"
)

type PersonaRepository interface {
	Create(ctx context.Context, persona *entity.Persona) error
	ListByUser(ctx context.Context, userID string) ([]entity.Persona, error)
	// GetByID and GetDefault return nil, nil when nothing matches.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Persona, error)
	GetDefault(ctx context.Context, userID string) (*entity.Persona, error)
	SetDefault(ctx context.Context, userID string, id uuid.UUID) error
}

type personaRepository struct {
	db database.IDatabase
}

func NewPersonaRepository(db database.IDatabase) PersonaRepository {
	return &personaRepository{db: db}
}

const personaColumns = `id, user_id, name, handle, is_default, created_at, updated_at`

func (r *personaRepository) Create(ctx context.Context, persona *entity.Persona) error {
	query := `
		INSERT INTO personas (` + personaColumns + `)
		VALUES (:id, :user_id, :name, :handle, :is_default, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, persona)
	return err
}

func (r *personaRepository) ListByUser(ctx context.Context, userID string) ([]entity.Persona, error) {
	query := `SELECT ` + personaColumns + ` FROM personas WHERE user_id = $1 ORDER BY is_default DESC, created_at ASC`
	personas := []entity.Persona{}
	if err := r.db.SelectContext(ctx, &personas, query, userID); err != nil {
		return nil, err
	}
	return personas, nil
}

func (r *personaRepository) get(ctx context.Context, query string, args ...any) (*entity.Persona, error) {
	var persona entity.Persona
	if err := r.db.GetContext(ctx, &persona, query, args...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &persona, nil
}

func (r *personaRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Persona, error) {
	return r.get(ctx, `SELECT `+personaColumns+` FROM personas WHERE id = $1`, id)
}

func (r *personaRepository) GetDefault(ctx context.Context, userID string) (*entity.Persona, error) {
	return r.get(ctx, `SELECT `+personaColumns+` FROM personas WHERE user_id = $1 AND is_default`, userID)
}

// SetDefault moves the default flag in one transaction so the one-default
// index never sees two defaults.
func (r *personaRepository) SetDefault(ctx context.Context, userID string, id uuid.UUID) error {
	tx, err := r.db.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE personas SET is_default = false, updated_at = NOW() WHERE user_id = $1 AND is_default`, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE personas SET is_default = true, updated_at = NOW() WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("persona %s not found for user %s", id, userID)
	}
	return tx.Commit()
}
