// Package store persists users and chat messages. Writes go through
// a FIFO queue so request handlers never wait on the database.
package store

import (
	"context"
	"errors"
	"time"
)

// Senders recorded with each stored message.
const (
	SenderUsuario = "usuario"
	SenderBot     = "bot"
)

// DefaultMessageLimit bounds history queries when no limit is given.
const DefaultMessageLimit = 10

// ErrClosed is returned when the queue no longer accepts work.
var ErrClosed = errors.New("store: queue closed")

// StoredMessage is one persisted chat message.
type StoredMessage struct {
	ID      int64     `json:"id_mensaje"`
	UserID  string    `json:"id_usuario"`
	Sender  string    `json:"emisor"`
	Content string    `json:"contenido"`
	SentAt  time.Time `json:"fecha_envio"`
}

// Store is the persistence backend behind the queue.
type Store interface {
	// SaveUser registers a user. It returns true when the user was
	// newly created, false when the ID already existed.
	SaveUser(ctx context.Context, userID, alias string) (bool, error)

	// SaveMessage appends a chat message to the user's history.
	SaveMessage(ctx context.Context, userID, sender, content string) error

	// Messages returns the user's most recent messages, newest first.
	Messages(ctx context.Context, userID string, limit int) ([]StoredMessage, error)

	// Close releases the backend.
	Close()
}
