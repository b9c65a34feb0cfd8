package session

import (
	"context"
	"sync"

	"github.com/mikey/mailguard/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the SessionStore interface.
// Its lifetime matches the process, like browser session storage matches the tab.
type MemoryStore struct {
	values map[string]string
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		logger: logger,
	}
}

// Get retrieves a session value
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", core.ErrKeyNotFound
	}
	return value, nil
}

// Set stores a session value
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	s.logger.Debug("Session value set", zap.String("key", key))
	return nil
}

// Clear removes a session value
func (s *MemoryStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
