package db

import (
	"context"
	"database/sql"
	"time"
)

const createTeam = `
INSERT INTO teams (id, game_id, player_id, seat, last_turn, alive, winner, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, 1, 0, ?, ?)
`

type CreateTeamParams struct {
	ID        string
	GameID    string
	PlayerID  string
	Seat      int64
	LastTurn  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateTeam(ctx context.Context, arg CreateTeamParams) error {
	_, err := q.db.ExecContext(ctx, createTeam,
		arg.ID,
		arg.GameID,
		arg.PlayerID,
		arg.Seat,
		arg.LastTurn,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const teamColumns = `
SELECT t.id, t.game_id, t.player_id, p.username, t.seat, t.last_turn, t.alive, t.winner, t.created_at, t.updated_at
FROM teams t
JOIN players p ON p.id = t.player_id
`

const listTeamsByGame = teamColumns + `
WHERE t.game_id = ?
ORDER BY t.seat
`

func (q *Queries) ListTeamsByGame(ctx context.Context, gameID string) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listTeamsByGame, gameID)
	if err != nil {
		return nil, err
	}
	return scanTeams(rows)
}

const listTeamsByPlayer = teamColumns + `
WHERE t.player_id = ?
ORDER BY t.created_at
`

func (q *Queries) ListTeamsByPlayer(ctx context.Context, playerID string) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listTeamsByPlayer, playerID)
	if err != nil {
		return nil, err
	}
	return scanTeams(rows)
}

func scanTeams(rows *sql.Rows) ([]Team, error) {
	defer rows.Close()
	var items []Team
	for rows.Next() {
		var i Team
		if err := rows.Scan(
			&i.ID,
			&i.GameID,
			&i.PlayerID,
			&i.Username,
			&i.Seat,
			&i.LastTurn,
			&i.Alive,
			&i.Winner,
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

const updateTeamLastTurn = `
UPDATE teams
SET last_turn = ?, updated_at = ?
WHERE id = ?
`

type UpdateTeamLastTurnParams struct {
	LastTurn  int64
	UpdatedAt time.Time
	ID        string
}

func (q *Queries) UpdateTeamLastTurn(ctx context.Context, arg UpdateTeamLastTurnParams) error {
	_, err := q.db.ExecContext(ctx, updateTeamLastTurn, arg.LastTurn, arg.UpdatedAt, arg.ID)
	return err
}

const updateTeamAlive = `
UPDATE teams
SET alive = ?, updated_at = ?
WHERE id = ?
`

type UpdateTeamAliveParams struct {
	Alive     bool
	UpdatedAt time.Time
	ID        string
}

func (q *Queries) UpdateTeamAlive(ctx context.Context, arg UpdateTeamAliveParams) error {
	_, err := q.db.ExecContext(ctx, updateTeamAlive, arg.Alive, arg.UpdatedAt, arg.ID)
	return err
}

const markTeamWinner = `
UPDATE teams
SET winner = 1, updated_at = ?
WHERE id = ? AND alive = 1
`

type MarkTeamWinnerParams struct {
	UpdatedAt time.Time
	ID        string
}

func (q *Queries) MarkTeamWinner(ctx context.Context, arg MarkTeamWinnerParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, markTeamWinner, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
