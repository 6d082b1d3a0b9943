package db

import (
	"context"
	"time"
)

const createShip = `
INSERT INTO ships (id, team_id, x, y, length, direction, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateShipParams struct {
	ID        string
	TeamID    string
	X         int64
	Y         int64
	Length    int64
	Direction int64
	CreatedAt time.Time
}

func (q *Queries) CreateShip(ctx context.Context, arg CreateShipParams) error {
	_, err := q.db.ExecContext(ctx, createShip,
		arg.ID,
		arg.TeamID,
		arg.X,
		arg.Y,
		arg.Length,
		arg.Direction,
		arg.CreatedAt,
	)
	return err
}

const listShipsByGame = `
SELECT s.id, s.team_id, s.x, s.y, s.length, s.direction, s.created_at
FROM ships s
JOIN teams t ON t.id = s.team_id
WHERE t.game_id = ?
ORDER BY t.seat, s.created_at, s.id
`

func (q *Queries) ListShipsByGame(ctx context.Context, gameID string) ([]Ship, error) {
	rows, err := q.db.QueryContext(ctx, listShipsByGame, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Ship
	for rows.Next() {
		var i Ship
		if err := rows.Scan(
			&i.ID,
			&i.TeamID,
			&i.X,
			&i.Y,
			&i.Length,
			&i.Direction,
			&i.CreatedAt,
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

const createShot = `
INSERT INTO shots (id, game_id, attacking_team_id, defending_team_id, x, y, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateShotParams struct {
	ID              string
	GameID          string
	AttackingTeamID string
	DefendingTeamID string
	X               int64
	Y               int64
	CreatedAt       time.Time
}

func (q *Queries) CreateShot(ctx context.Context, arg CreateShotParams) error {
	_, err := q.db.ExecContext(ctx, createShot,
		arg.ID,
		arg.GameID,
		arg.AttackingTeamID,
		arg.DefendingTeamID,
		arg.X,
		arg.Y,
		arg.CreatedAt,
	)
	return err
}

const listShotsByGame = `
SELECT id, game_id, attacking_team_id, defending_team_id, x, y, created_at
FROM shots
WHERE game_id = ?
ORDER BY created_at, id
`

func (q *Queries) ListShotsByGame(ctx context.Context, gameID string) ([]Shot, error) {
	rows, err := q.db.QueryContext(ctx, listShotsByGame, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Shot
	for rows.Next() {
		var i Shot
		if err := rows.Scan(
			&i.ID,
			&i.GameID,
			&i.AttackingTeamID,
			&i.DefendingTeamID,
			&i.X,
			&i.Y,
			&i.CreatedAt,
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

const countShotsByGame = `
SELECT COUNT(*) FROM shots WHERE game_id = ?
`

func (q *Queries) CountShotsByGame(ctx context.Context, gameID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countShotsByGame, gameID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
