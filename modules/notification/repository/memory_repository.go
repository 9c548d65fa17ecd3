package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"hangout-api/core/params"
	"hangout-api/modules/notification/entity"
)

type memoryRepository struct {
	mu    sync.RWMutex
	items []entity.Notification
}

func NewMemoryNotificationRepository() NotificationRepository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *notification)
	return nil
}

func (r *memoryRepository) GetByUserID(_ context.Context, userID string, p params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mine := []entity.Notification{}
	for _, n := range r.items {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})

	total := len(mine)
	from := min(p.Offset(), total)
	to := min(from+p.PageSize, total)

	return &entity.PaginatedNotificationEntity{
		Items:      mine[from:to],
		TotalItems: total,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (r *memoryRepository) MarkAsRead(_ context.Context, userID string, ids []string) error {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range r.items {
		n := &r.items[i]
		if n.UserID == userID && !n.IsRead && wanted[n.ID.String()] {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *memoryRepository) MarkAllAsRead(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range r.items {
		n := &r.items[i]
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *memoryRepository) CountUnread(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
