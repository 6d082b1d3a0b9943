package db

import (
	"context"
	"time"
)

const createGame = `
INSERT INTO games (id, turn, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateGameParams struct {
	ID        string
	Turn      int64
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) error {
	_, err := q.db.ExecContext(ctx, createGame,
		arg.ID,
		arg.Turn,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getGame = `
SELECT id, turn, status, created_at, updated_at
FROM games
WHERE id = ?
`

func (q *Queries) GetGame(ctx context.Context, id string) (Game, error) {
	row := q.db.QueryRowContext(ctx, getGame, id)
	var i Game
	err := row.Scan(
		&i.ID,
		&i.Turn,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const advanceGameTurn = `
UPDATE games
SET turn = turn + 1, updated_at = ?
WHERE id = ? AND turn = ?
`

type AdvanceGameTurnParams struct {
	UpdatedAt    time.Time
	ID           string
	ExpectedTurn int64
}

// AdvanceGameTurn increments the turn only if it still equals ExpectedTurn
// and reports how many rows changed.
func (q *Queries) AdvanceGameTurn(ctx context.Context, arg AdvanceGameTurnParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, advanceGameTurn, arg.UpdatedAt, arg.ID, arg.ExpectedTurn)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateGameStatus = `
UPDATE games
SET status = ?, updated_at = ?
WHERE id = ?
`

type UpdateGameStatusParams struct {
	Status    string
	UpdatedAt time.Time
	ID        string
}

func (q *Queries) UpdateGameStatus(ctx context.Context, arg UpdateGameStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateGameStatus, arg.Status, arg.UpdatedAt, arg.ID)
	return err
}

const listActiveGamesByPlayer = `
SELECT g.id, g.turn, g.status, g.created_at, g.updated_at
FROM games g
JOIN teams t ON t.game_id = g.id
WHERE t.player_id = ? AND t.alive = 1
ORDER BY g.created_at DESC, g.id
LIMIT ?
`

type ListActiveGamesByPlayerParams struct {
	PlayerID string
	Limit    int64
}

func (q *Queries) ListActiveGamesByPlayer(ctx context.Context, arg ListActiveGamesByPlayerParams) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx, listActiveGamesByPlayer, arg.PlayerID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Game
	for rows.Next() {
		var i Game
		if err := rows.Scan(
			&i.ID,
			&i.Turn,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
