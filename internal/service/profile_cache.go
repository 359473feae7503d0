package service

import (
	"context"
	"sync"
	"time"
)

const (
	profileCacheNamespace     = "user_profile"
	profileListCacheNamespace = "user_profile_list"
)

// UserProfileCacheStore holds serialized profiles grouped by namespace so a write can drop a whole group at once.
type UserProfileCacheStore interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, namespace, key string) error
	InvalidateNamespace(ctx context.Context, namespace string) error
}

type NoopUserProfileCacheStore struct{}

func NewNoopUserProfileCacheStore() *NoopUserProfileCacheStore {
	return &NoopUserProfileCacheStore{}
}

func (s *NoopUserProfileCacheStore) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (s *NoopUserProfileCacheStore) Set(context.Context, string, string, []byte, time.Duration) error {
	return nil
}

func (s *NoopUserProfileCacheStore) Delete(context.Context, string, string) error {
	return nil
}

func (s *NoopUserProfileCacheStore) InvalidateNamespace(context.Context, string) error {
	return nil
}

type memoryCacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

type InMemoryUserProfileCacheStore struct {
	mu    sync.RWMutex
	store map[string]map[string]memoryCacheEntry
	now   func() time.Time
}

func NewInMemoryUserProfileCacheStore() *InMemoryUserProfileCacheStore {
	return &InMemoryUserProfileCacheStore{
		store: make(map[string]map[string]memoryCacheEntry),
		now:   time.Now,
	}
}

func (s *InMemoryUserProfileCacheStore) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, ok := s.store[namespace][key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		s.deleteLocked(namespace, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), entry.payload...), true, nil
}

func (s *InMemoryUserProfileCacheStore) Set(_ context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.store[namespace]
	if !ok {
		ns = make(map[string]memoryCacheEntry)
		s.store[namespace] = ns
	}
	ns[key] = memoryCacheEntry{
		payload:   append([]byte(nil), value...),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *InMemoryUserProfileCacheStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(namespace, key)
	return nil
}

func (s *InMemoryUserProfileCacheStore) InvalidateNamespace(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, namespace)
	return nil
}

func (s *InMemoryUserProfileCacheStore) deleteLocked(namespace, key string) {
	ns, ok := s.store[namespace]
	if !ok {
		return
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(s.store, namespace)
	}
}
