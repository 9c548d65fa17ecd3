package repository

import (
	"context"
	"sort"
	"sync"

	"hangout-api/modules/hangout/entity"
)

type memoryRepository struct {
	mu       sync.RWMutex
	hangouts map[string]entity.Hangout
}

// NewMemoryHangoutRepository keeps requests in process memory.
func NewMemoryHangoutRepository() HangoutRepository {
	return &memoryRepository{hangouts: make(map[string]entity.Hangout)}
}

func (r *memoryRepository) GetRequest(_ context.Context, id string) (*entity.Hangout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.hangouts[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (r *memoryRepository) PutRequest(_ context.Context, hangout *entity.Hangout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *hangout
	if existing, ok := r.hangouts[hangout.ID]; ok {
		// Only the lifecycle fields change after creation.
		existing.Status = stored.Status
		existing.CalendarEventID = stored.CalendarEventID
		existing.CreatorEventID = stored.CreatorEventID
		existing.InviteeEventID = stored.InviteeEventID
		existing.UpdatedAt = stored.UpdatedAt
		stored = existing
	}
	r.hangouts[hangout.ID] = stored
	return nil
}

func (r *memoryRepository) QueryRequestsByParty(_ context.Context, userID string) ([]entity.Hangout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hangouts := []entity.Hangout{}
	for _, h := range r.hangouts {
		if h.IsParty(userID) {
			hangouts = append(hangouts, h)
		}
	}
	sort.Slice(hangouts, func(i, j int) bool {
		return hangouts[i].StartDate.Before(hangouts[j].StartDate)
	})
	return hangouts, nil
}

func (r *memoryRepository) DeleteRequest(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.hangouts, id)
	return nil
}
