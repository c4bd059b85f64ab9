package session

import "sync"

// Memory is a thread-safe in-memory Store. State is lost on restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string]any
}

var _ Store = (*Memory)(nil)

// NewMemory creates an in-memory session store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]any)}
}

func (s *Memory) Get(key string) (any, bool) {
	s.mu.RLock()
	v, ok := s.data[key]
	s.mu.RUnlock()
	return v, ok
}

func (s *Memory) Set(key string, value any) {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
}

func (s *Memory) Delete(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}

func (s *Memory) Exists(key string) bool {
	s.mu.RLock()
	_, ok := s.data[key]
	s.mu.RUnlock()
	return ok
}
