package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/workboard/internal/common"
)

// MemoryStore is a process-local Store used in tests and redis-less
// development. Entries expire lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[string]memoryEntry
	flashes map[string][]Flash
}

type memoryEntry struct {
	user    User
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]memoryEntry),
		flashes: make(map[string][]Flash),
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.users[sessionID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(s.users, sessionID)
		delete(s.flashes, sessionID)
		return nil, common.ErrorNotFound
	}
	u := e.user
	return &u, nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, user *User, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{user: *user}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	s.users[sessionID] = e
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, sessionID)
	delete(s.flashes, sessionID)
	return nil
}

func (s *MemoryStore) SetFlash(_ context.Context, sessionID string, flash Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flashes[sessionID] = append(s.flashes[sessionID], flash)
	return nil
}

func (s *MemoryStore) PopFlashes(_ context.Context, sessionID string) ([]Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flashes := s.flashes[sessionID]
	delete(s.flashes, sessionID)
	return flashes, nil
}
