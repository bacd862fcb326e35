package artifact

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps artifacts in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, projectID, path string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(content))
	copy(buf, content)
	s.objects[objectKey(projectID, path)] = buf
	return nil
}

func (s *MemoryStore) Get(_ context.Context, projectID, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.objects[objectKey(projectID, path)]
	if !ok {
		return nil, ErrNotFound
	}
	return content, nil
}

func (s *MemoryStore) List(_ context.Context, projectID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix := strings.TrimSuffix(strings.TrimSpace(projectID), "/") + "/"
	var paths []string
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			paths = append(paths, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
