package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hangout-api/modules/persona/entity"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu       sync.RWMutex
	personas map[uuid.UUID]entity.Persona
}

func NewMemoryPersonaRepository() PersonaRepository {
	return &memoryRepository{personas: make(map[uuid.UUID]entity.Persona)}
}

func (r *memoryRepository) Create(_ context.Context, persona *entity.Persona) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if persona.IsDefault {
		for id, p := range r.personas {
			if p.UserID == persona.UserID && p.IsDefault {
				return fmt.Errorf("user %s already has a default persona %s", p.UserID, id)
			}
		}
	}
	r.personas[persona.ID] = *persona
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string) ([]entity.Persona, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	personas := []entity.Persona{}
	for _, p := range r.personas {
		if p.UserID == userID {
			personas = append(personas, p)
		}
	}
	sort.Slice(personas, func(i, j int) bool {
		if personas[i].IsDefault != personas[j].IsDefault {
			return personas[i].IsDefault
		}
		return personas[i].CreatedAt.Before(personas[j].CreatedAt)
	})
	return personas, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Persona, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.personas[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memoryRepository) GetDefault(_ context.Context, userID string) (*entity.Persona, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.personas {
		if p.UserID == userID && p.IsDefault {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memoryRepository) SetDefault(_ context.Context, userID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.personas[id]
	if !ok || target.UserID != userID {
		return fmt.Errorf("persona %s not found for user %s", id, userID)
	}
	for pid, p := range r.personas {
		if p.UserID == userID {
			p.IsDefault = pid == id
			r.personas[pid] = p
		}
	}
	return nil
}
