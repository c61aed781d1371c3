package chat

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Session identifies a single user conversation with the backend.
// The backend keeps per-user context keyed by the session's user ID,
// so the ID must stay stable for the lifetime of the conversation.
type Session struct {
	userID string

	mu       sync.Mutex
	advanced bool
}

// NewSession creates a session with a fresh opaque user ID.
func NewSession() *Session {
	return &Session{
		userID: fmt.Sprintf("user_%s", uuid.NewString()),
	}
}

// NewSessionWithID creates a session with a caller-supplied user ID.
// Used when restoring a conversation.
func NewSessionWithID(userID string) *Session {
	return &Session{userID: userID}
}

// UserID returns the opaque user identifier sent with every request.
func (s *Session) UserID() string {
	return s.userID
}

// Advanced reports whether the session routes messages to the
// advanced language endpoint.
func (s *Session) Advanced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanced
}

// SetAdvanced switches the session between the basic and advanced
// endpoints. It returns true if the value changed.
func (s *Session) SetAdvanced(enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.advanced == enabled {
		return false
	}
	s.advanced = enabled
	return true
}
