package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Account errors.
var (
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("store: username already in use")

	// ErrBadCredentials is returned when login credentials do not match.
	ErrBadCredentials = errors.New("store: invalid credentials")
)

// Account is a registered login.
type Account struct {
	UserID   string `json:"id_usuario"`
	Username string `json:"username"`
	Alias    string `json:"alias"`
}

// Accounts manages login credentials. Password hashes are computed by
// the caller; the store never sees plaintext.
type Accounts interface {
	// CreateAccount registers a username and returns the new user ID.
	CreateAccount(ctx context.Context, username, passwordHash, alias string) (string, error)

	// Authenticate returns the account matching the credentials, or
	// ErrBadCredentials.
	Authenticate(ctx context.Context, username, passwordHash string) (*Account, error)
}

// NewUserID mints an opaque user identifier.
func NewUserID() string {
	return fmt.Sprintf("user_%s", uuid.NewString())
}

// CreateAccount implements Accounts.
func (p *Postgres) CreateAccount(ctx context.Context, username, passwordHash, alias string) (string, error) {
	userID := NewUserID()
	var id string
	err := p.pool.QueryRow(ctx, `
		INSERT INTO usuario_app (id_usuario, username, password, alias)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO NOTHING
		RETURNING id_usuario`,
		userID, username, passwordHash, alias,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUsernameTaken
		}
		return "", fmt.Errorf("creating account %s: %w", username, err)
	}
	return id, nil
}

// Authenticate implements Accounts.
func (p *Postgres) Authenticate(ctx context.Context, username, passwordHash string) (*Account, error) {
	var a Account
	err := p.pool.QueryRow(ctx, `
		SELECT id_usuario, username, COALESCE(alias, '')
		FROM usuario_app
		WHERE username = $1 AND password = $2`,
		username, passwordHash,
	).Scan(&a.UserID, &a.Username, &a.Alias)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("authenticating %s: %w", username, err)
	}
	return &a, nil
}

type memoryAccount struct {
	userID       string
	passwordHash string
	alias        string
}

// CreateAccount implements Accounts.
func (s *MemoryStore) CreateAccount(_ context.Context, username, passwordHash, alias string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts[username]; taken {
		return "", ErrUsernameTaken
	}
	userID := NewUserID()
	s.accounts[username] = memoryAccount{userID: userID, passwordHash: passwordHash, alias: alias}
	s.users[userID] = alias
	return userID, nil
}

// Authenticate implements Accounts.
func (s *MemoryStore) Authenticate(_ context.Context, username, passwordHash string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[username]
	if !ok || acct.passwordHash != passwordHash {
		return nil, ErrBadCredentials
	}
	return &Account{UserID: acct.userID, Username: username, Alias: acct.alias}, nil
}

var (
	_ Accounts = (*Postgres)(nil)
	_ Accounts = (*MemoryStore)(nil)
)
