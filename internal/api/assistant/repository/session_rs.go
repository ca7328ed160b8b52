package assistantRepository

import (
	"context"
	"errors"
	"sync"
	"time"

	assistantPkg "LundyVoice/pkg/assistant"
	"LundyVoice/pkg/redis"
)

// SessionStore keeps dialogue sessions and per-client onboarding flags.
type SessionStore interface {
	GetSession(ctx context.Context, id string) (assistantPkg.Session, bool, error)
	SaveSession(ctx context.Context, sess assistantPkg.Session) error
	OnboardingSeen(ctx context.Context, clientID string) (bool, error)
	SetOnboardingSeen(ctx context.Context, clientID string, seen bool) error
}

const (
	sessionKeyPrefix    = "assistant:session:"
	onboardingKeyPrefix = "assistant:onboarding:"
)

type redisSessionStore struct {
	client redis.IRedis
	ttl    time.Duration
}

// NewRedisSessionStore stores sessions as JSON. A zero ttl keeps them forever.
func NewRedisSessionStore(client redis.IRedis, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func (s *redisSessionStore) GetSession(ctx context.Context, id string) (assistantPkg.Session, bool, error) {
	var sess assistantPkg.Session
	err := s.client.GetJSON(ctx, sessionKeyPrefix+id, &sess)
	if errors.Is(err, redis.ErrNotFound) {
		return assistantPkg.Session{}, false, nil
	}
	if err != nil {
		return assistantPkg.Session{}, false, err
	}
	return sess, true, nil
}

func (s *redisSessionStore) SaveSession(ctx context.Context, sess assistantPkg.Session) error {
	return s.client.SetJSON(ctx, sessionKeyPrefix+sess.ID, sess, s.ttl)
}

func (s *redisSessionStore) OnboardingSeen(ctx context.Context, clientID string) (bool, error) {
	var seen bool
	err := s.client.GetJSON(ctx, onboardingKeyPrefix+clientID, &seen)
	if errors.Is(err, redis.ErrNotFound) {
		return false, nil
	}
	return seen, err
}

func (s *redisSessionStore) SetOnboardingSeen(ctx context.Context, clientID string, seen bool) error {
	if !seen {
		return s.client.Delete(ctx, onboardingKeyPrefix+clientID)
	}
	return s.client.SetJSON(ctx, onboardingKeyPrefix+clientID, true, 0)
}

type memorySessionStore struct {
	mu         sync.RWMutex
	sessions   map[string]assistantPkg.Session
	onboarding map[string]bool
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions:   make(map[string]assistantPkg.Session),
		onboarding: make(map[string]bool),
	}
}

func (s *memorySessionStore) GetSession(_ context.Context, id string) (assistantPkg.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	return sess, ok, nil
}

func (s *memorySessionStore) SaveSession(_ context.Context, sess assistantPkg.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	return nil
}

func (s *memorySessionStore) OnboardingSeen(_ context.Context, clientID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.onboarding[clientID], nil
}

func (s *memorySessionStore) SetOnboardingSeen(_ context.Context, clientID string, seen bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seen {
		s.onboarding[clientID] = true
	} else {
		delete(s.onboarding, clientID)
	}
	return nil
}
