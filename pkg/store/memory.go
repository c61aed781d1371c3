package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store. It backs tests and runs without
// a configured database.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]string
	accounts map[string]memoryAccount
	messages map[string][]StoredMessage
	nextID   int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]string),
		accounts: make(map[string]memoryAccount),
		messages: make(map[string][]StoredMessage),
	}
}

// SaveUser implements Store.
func (s *MemoryStore) SaveUser(_ context.Context, userID, alias string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[userID]; exists {
		return false, nil
	}
	s.users[userID] = alias
	return true, nil
}

// SaveMessage implements Store.
func (s *MemoryStore) SaveMessage(_ context.Context, userID, sender, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.messages[userID] = append(s.messages[userID], StoredMessage{
		ID:      s.nextID,
		UserID:  userID,
		Sender:  sender,
		Content: content,
		SentAt:  time.Now(),
	})
	return nil
}

// Messages implements Store. Newest first, like the database query.
func (s *MemoryStore) Messages(_ context.Context, userID string, limit int) ([]StoredMessage, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.messages[userID]
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]StoredMessage, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, history[i])
	}
	return out, nil
}

// UserCount returns how many users are registered.
func (s *MemoryStore) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Close implements Store.
func (s *MemoryStore) Close() {}

var _ Store = (*MemoryStore)(nil)
