package promptoverride

import (
	"context"
	"sync"

	"codeappraise/internal/prompt"
)

// MemoryStore keeps overrides in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	overrides map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{overrides: make(map[string]string)}
}

func key(userID string, t prompt.Type) string {
	return userID + "/" + string(t)
}

func (s *MemoryStore) Get(_ context.Context, userID string, t prompt.Type) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.overrides[key(userID, t)]
	return text, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, userID string, t prompt.Type, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[key(userID, t)] = text
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string, t prompt.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, key(userID, t))
	return nil
}
