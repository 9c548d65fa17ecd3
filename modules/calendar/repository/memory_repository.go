package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"hangout-api/modules/calendar/entity"
)

type memoryRepository struct {
	mu    sync.RWMutex
	conns map[string]entity.CalendarConnection
}

// NewMemoryCalendarRepository keeps connections in process memory.
func NewMemoryCalendarRepository() CalendarRepository {
	return &memoryRepository{conns: make(map[string]entity.CalendarConnection)}
}

func connectionKey(userID, provider string) string {
	return userID + "|" + provider
}

func (r *memoryRepository) UpsertConnection(_ context.Context, conn *entity.CalendarConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := connectionKey(conn.UserID, conn.Provider)
	if existing, ok := r.conns[key]; ok {
		conn.ID = existing.ID
		conn.CreatedAt = existing.CreatedAt
	}
	r.conns[key] = *conn
	return nil
}

func (r *memoryRepository) GetActiveConnection(_ context.Context, userID, provider string) (*entity.CalendarConnection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[connectionKey(userID, provider)]
	if !ok || !conn.IsActive {
		return nil, nil
	}
	return &conn, nil
}

func (r *memoryRepository) ListConnections(_ context.Context, userID string) ([]entity.CalendarConnection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connections := []entity.CalendarConnection{}
	for _, conn := range r.conns {
		if conn.UserID == userID && conn.IsActive {
			connections = append(connections, conn)
		}
	}
	sort.Slice(connections, func(i, j int) bool {
		return connections[i].CreatedAt.After(connections[j].CreatedAt)
	})
	return connections, nil
}

func (r *memoryRepository) UpdateTokens(_ context.Context, conn *entity.CalendarConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := connectionKey(conn.UserID, conn.Provider)
	stored, ok := r.conns[key]
	if !ok {
		return nil
	}
	stored.AccessToken = conn.AccessToken
	stored.RefreshToken = conn.RefreshToken
	stored.TokenExpiresAt = conn.TokenExpiresAt
	stored.UpdatedAt = time.Now()
	r.conns[key] = stored
	return nil
}

func (r *memoryRepository) DeactivateConnection(_ context.Context, userID, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := connectionKey(userID, provider)
	if stored, ok := r.conns[key]; ok {
		stored.IsActive = false
		stored.UpdatedAt = time.Now()
		r.conns[key] = stored
	}
	return nil
}
