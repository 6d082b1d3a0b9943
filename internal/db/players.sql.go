package db

import (
	"context"
	"time"
)

const createPlayer = `
INSERT INTO players (id, username, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`

type CreatePlayerParams struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) error {
	_, err := q.db.ExecContext(ctx, createPlayer,
		arg.ID,
		arg.Username,
		arg.PasswordHash,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const ensurePlayer = `
INSERT INTO players (id, username, password_hash, created_at, updated_at)
VALUES (?, ?, '', ?, ?)
ON CONFLICT (username) DO NOTHING
`

type EnsurePlayerParams struct {
	ID        string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnsurePlayer inserts a password-less player unless the username exists.
func (q *Queries) EnsurePlayer(ctx context.Context, arg EnsurePlayerParams) error {
	_, err := q.db.ExecContext(ctx, ensurePlayer,
		arg.ID,
		arg.Username,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getPlayerByUsername = `
SELECT id, username, password_hash, created_at, updated_at
FROM players
WHERE username = ?
`

func (q *Queries) GetPlayerByUsername(ctx context.Context, username string) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayerByUsername, username)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.PasswordHash,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
