package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linalabs/go-lina/internal/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS usuario_app (
	id_usuario     TEXT PRIMARY KEY,
	username       TEXT UNIQUE,
	password       TEXT,
	alias          TEXT,
	fecha_registro TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS mensaje_chat (
	id_mensaje  BIGSERIAL PRIMARY KEY,
	id_usuario  TEXT NOT NULL REFERENCES usuario_app (id_usuario),
	emisor      TEXT NOT NULL,
	contenido   TEXT NOT NULL,
	fecha_envio TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS mensaje_chat_usuario_fecha
	ON mensaje_chat (id_usuario, fecha_envio DESC);
`

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database and ensures the schema exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	log.Info("database connected")
	return &Postgres{pool: pool}, nil
}

// SaveUser implements Store.
func (p *Postgres) SaveUser(ctx context.Context, userID, alias string) (bool, error) {
	var id string
	err := p.pool.QueryRow(ctx, `
		INSERT INTO usuario_app (id_usuario, alias)
		VALUES ($1, $2)
		ON CONFLICT (id_usuario) DO NOTHING
		RETURNING id_usuario`,
		userID, alias,
	).Scan(&id)
	if err != nil {
		// No row back means the user already existed.
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("saving user %s: %w", userID, err)
	}
	return true, nil
}

// SaveMessage implements Store.
func (p *Postgres) SaveMessage(ctx context.Context, userID, sender, content string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO mensaje_chat (id_usuario, emisor, contenido)
		VALUES ($1, $2, $3)`,
		userID, sender, content,
	)
	if err != nil {
		return fmt.Errorf("saving message for %s: %w", userID, err)
	}
	return nil
}

// Messages implements Store.
func (p *Postgres) Messages(ctx context.Context, userID string, limit int) ([]StoredMessage, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	rows, err := p.pool.Query(ctx, `
		SELECT id_mensaje, id_usuario, emisor, contenido, fecha_envio
		FROM mensaje_chat
		WHERE id_usuario = $1
		ORDER BY fecha_envio DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("loading messages for %s: %w", userID, err)
	}
	defer rows.Close()

	var out []StoredMessage
	for rows.Next() {
		var m StoredMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Content, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Close implements Store.
func (p *Postgres) Close() {
	p.pool.Close()
}

var _ Store = (*Postgres)(nil)
