package service

import (
	"context"
	"strings"
	"time"

	"hangout-api/core/errors"
	"hangout-api/core/logger"
	"hangout-api/modules/persona/dto"
	"hangout-api/modules/persona/entity"
	"hangout-api/modules/persona/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxPersonaNameLength = 80

type PersonaServiceInterface interface {
	EnsureDefaultPersona(ctx context.Context, userID string) (*entity.Persona, error)
	ResolvePersona(ctx context.Context, userID, personaID string) (string, error)
	ListPersonas(ctx context.Context, userID string) ([]dto.PersonaResponse, error)
	CreatePersona(ctx context.Context, userID string, req *dto.CreatePersonaRequest) (*dto.PersonaResponse, error)
}

type PersonaService struct {
	repo repository.PersonaRepository
	now  func() time.Time
}

func NewPersonaService(repo repository.PersonaRepository) *PersonaService {
	return &PersonaService{
		repo: repo,
		now:  time.Now,
	}
}

func toPersonaResponse(p *entity.Persona) dto.PersonaResponse {
	return dto.PersonaResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Handle:    p.Handle,
		IsDefault: p.IsDefault,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

// EnsureDefaultPersona returns the user's default persona. A user with
// personas but no default gets the oldest one promoted; a user with none gets
// a fresh default.
func (s *PersonaService) EnsureDefaultPersona(ctx context.Context, userID string) (*entity.Persona, error) {
	current, err := s.repo.GetDefault(ctx, userID)
	if err != nil {
		logger.Error("PersonaService:EnsureDefaultPersona:GetDefault:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load default persona", err)
	}
	if current != nil {
		return current, nil
	}

	personas, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error("PersonaService:EnsureDefaultPersona:ListByUser:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load personas", err)
	}

	if len(personas) > 0 {
		promoted := personas[0]
		if err := s.repo.SetDefault(ctx, userID, promoted.ID); err != nil {
			logger.Error("PersonaService:EnsureDefaultPersona:SetDefault:Error", "user_id", userID, "error", err)
			return nil, errors.NewAppError(errors.ErrPersistence, "failed to promote default persona", err)
		}
		promoted.IsDefault = true
		logger.Info("PersonaService:EnsureDefaultPersona:Promoted", "user_id", userID, "persona_id", promoted.ID)
		return &promoted, nil
	}

	persona := s.newPersona(userID, entity.DefaultPersonaName, true)
	if err := s.repo.Create(ctx, persona); err != nil {
		// A concurrent caller may have won the one-default index.
		if winner, getErr := s.repo.GetDefault(ctx, userID); getErr == nil && winner != nil {
			return winner, nil
		}
		logger.Error("PersonaService:EnsureDefaultPersona:Create:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to create default persona", err)
	}

	logger.Info("PersonaService:EnsureDefaultPersona:Created", "user_id", userID, "persona_id", persona.ID)
	return persona, nil
}

// ResolvePersona returns the persona ID a hangout should carry for userID.
// An empty personaID resolves to the default persona; anything else must be
// one of the user's own personas.
func (s *PersonaService) ResolvePersona(ctx context.Context, userID, personaID string) (string, error) {
	def, err := s.EnsureDefaultPersona(ctx, userID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(personaID) == "" {
		return def.ID.String(), nil
	}

	id, err := uuid.Parse(personaID)
	if err != nil {
		return "", errors.NewAppError(errors.ErrValidation, "persona not found", err)
	}
	persona, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.Error("PersonaService:ResolvePersona:GetByID:Error", "user_id", userID, "error", err)
		return "", errors.NewAppError(errors.ErrPersistence, "failed to load persona", err)
	}
	if persona == nil || persona.UserID != userID {
		return "", errors.NewAppError(errors.ErrValidation, "persona not found", nil)
	}
	return persona.ID.String(), nil
}

func (s *PersonaService) ListPersonas(ctx context.Context, userID string) ([]dto.PersonaResponse, error) {
	if _, err := s.EnsureDefaultPersona(ctx, userID); err != nil {
		return nil, err
	}

	personas, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error("PersonaService:ListPersonas:ListByUser:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load personas", err)
	}

	result := make([]dto.PersonaResponse, 0, len(personas))
	for i := range personas {
		result = append(result, toPersonaResponse(&personas[i]))
	}
	return result, nil
}

func (s *PersonaService) CreatePersona(ctx context.Context, userID string, req *dto.CreatePersonaRequest) (*dto.PersonaResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewAppError(errors.ErrValidation, "name is required", nil)
	}
	if len(name) > maxPersonaNameLength {
		return nil, errors.NewAppError(errors.ErrValidation, "name is too long", nil)
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error("PersonaService:CreatePersona:ListByUser:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load personas", err)
	}

	// The first persona is always the default.
	makeDefault := req.IsDefault || len(existing) == 0

	persona := s.newPersona(userID, name, false)
	if err := s.repo.Create(ctx, persona); err != nil {
		logger.Error("PersonaService:CreatePersona:Create:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to create persona", err)
	}
	if makeDefault {
		if err := s.repo.SetDefault(ctx, userID, persona.ID); err != nil {
			logger.Error("PersonaService:CreatePersona:SetDefault:Error", "user_id", userID, "error", err)
			return nil, errors.NewAppError(errors.ErrPersistence, "failed to set default persona", err)
		}
		persona.IsDefault = true
	}

	logger.Info("PersonaService:CreatePersona:Success", "user_id", userID, "persona_id", persona.ID)
	resp := toPersonaResponse(persona)
	return &resp, nil
}

func (s *PersonaService) newPersona(userID, name string, isDefault bool) *entity.Persona {
	persona := &entity.Persona{
		UserID:    userID,
		Name:      name,
		Handle:    slug.Make(name),
		IsDefault: isDefault,
	}
	persona.Touch(s.now())
	return persona
}
