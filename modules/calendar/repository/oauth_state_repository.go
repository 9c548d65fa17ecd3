package repository

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// OAuthStateStore remembers which user started an OAuth consent flow.
type OAuthStateStore interface {
	Save(ctx context.Context, state, userID string, ttl time.Duration) error
	// Consume returns the user for state and forgets it. An unknown or
	// expired state yields "".
	Consume(ctx context.Context, state string) (string, error)
}

const oauthStatePrefix = "oauth_state:"

type redisOAuthStateStore struct {
	client redis.UniversalClient
}

func NewRedisOAuthStateStore(client redis.UniversalClient) OAuthStateStore {
	return &redisOAuthStateStore{client: client}
}

func (s *redisOAuthStateStore) Save(ctx context.Context, state, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, oauthStatePrefix+state, userID, ttl).Err()
}

func (s *redisOAuthStateStore) Consume(ctx context.Context, state string) (string, error) {
	userID, err := s.client.GetDel(ctx, oauthStatePrefix+state).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", nil
	}
	return userID, err
}

type oauthState struct {
	userID    string
	expiresAt time.Time
}

type memoryOAuthStateStore struct {
	mu     sync.Mutex
	states map[string]oauthState
	now    func() time.Time
}

func NewMemoryOAuthStateStore() OAuthStateStore {
	return &memoryOAuthStateStore{states: make(map[string]oauthState), now: time.Now}
}

func (s *memoryOAuthStateStore) Save(_ context.Context, state, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, v := range s.states {
		if !v.expiresAt.After(now) {
			delete(s.states, k)
		}
	}
	s.states[state] = oauthState{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

func (s *memoryOAuthStateStore) Consume(_ context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.states[state]
	if !ok {
		return "", nil
	}
	delete(s.states, state)
	if !v.expiresAt.After(s.now()) {
		return "", nil
	}
	return v.userID, nil
}
