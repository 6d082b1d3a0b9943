package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"battleships/internal/apperrors"
	"battleships/internal/db"
	"battleships/internal/domain"
	"battleships/internal/engine"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type GameRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewGameRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *GameRepository {
	return &GameRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// TeamSetup is one team of a new game with its already placed fleet.
type TeamSetup struct {
	Team  domain.Team
	Ships []domain.Ship
}

// Create stores a game, its teams and then their ships in one transaction.
// Missing ids are generated; ship TeamIDs are overwritten with their team's id.
func (r *GameRepository) Create(ctx context.Context, setups []TeamSetup) (*domain.Game, error) {
	gameID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	game := &domain.Game{ID: gameID, Turn: 0, Status: domain.GameStatusPlaying, CreatedAt: now, UpdatedAt: now}
	if err := qtx.CreateGame(ctx, db.CreateGameParams{
		ID:        game.ID,
		Turn:      int64(game.Turn),
		Status:    string(game.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	teamIDs := make([]string, len(setups))
	for i, setup := range setups {
		id := setup.Team.ID
		if id == "" {
			if id, err = gonanoid.New(); err != nil {
				return nil, fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}
		teamIDs[i] = id
		if err := qtx.CreateTeam(ctx, db.CreateTeamParams{
			ID:        id,
			GameID:    game.ID,
			PlayerID:  setup.Team.PlayerID,
			Seat:      int64(setup.Team.Seat),
			LastTurn:  int64(setup.Team.LastTurn),
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("failed to create team for player %s: %w", setup.Team.PlayerID, err)
		}
	}

	for i, setup := range setups {
		for _, ship := range setup.Ships {
			id := ship.ID
			if id == "" {
				if id, err = gonanoid.New(); err != nil {
					return nil, fmt.Errorf("failed to generate nanoid: %w", err)
				}
			}
			if err := qtx.CreateShip(ctx, db.CreateShipParams{
				ID:        id,
				TeamID:    teamIDs[i],
				X:         int64(ship.Origin.X),
				Y:         int64(ship.Origin.Y),
				Length:    int64(ship.Length),
				Direction: int64(ship.Direction),
				CreatedAt: now,
			}); err != nil {
				return nil, fmt.Errorf("failed to create ship: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit game: %w", err)
	}

	r.logger.Debug().Str("game_id", game.ID).Int("teams", len(setups)).Msg("game created")
	return game, nil
}

// Snapshot reads a game and all its records on one connection inside a
// deferred read transaction, so the game, teams, ships and shots all come
// from the same database state. Use Attack for a locked read.
func (r *GameRepository) Snapshot(ctx context.Context, gameID string) (*engine.Snapshot, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN DEFERRED"); err != nil {
		return nil, fmt.Errorf("failed to begin read: %w", err)
	}
	defer conn.ExecContext(context.Background(), "ROLLBACK")

	return r.readSnapshot(ctx, db.New(conn), gameID)
}

// Attack runs resolve against a snapshot read inside a write transaction and
// applies the result before committing. A rejected attack changes nothing.
func (r *GameRepository) Attack(
	ctx context.Context,
	gameID string,
	resolve func(*engine.Snapshot) (*engine.AttackResult, error),
) (*engine.AttackResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	snap, err := r.readSnapshot(ctx, qtx, gameID)
	if err != nil {
		return nil, err
	}

	result, err := resolve(snap)
	if err != nil {
		return nil, err
	}

	if err := r.apply(ctx, qtx, result); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit attack: %w", err)
	}
	return result, nil
}

func (r *GameRepository) apply(ctx context.Context, qtx *db.Queries, result *engine.AttackResult) error {
	now := time.Now().UTC()

	shotID, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate nanoid: %w", err)
	}
	err = qtx.CreateShot(ctx, db.CreateShotParams{
		ID:              shotID,
		GameID:          result.Shot.GameID,
		AttackingTeamID: result.Shot.AttackingTeamID,
		DefendingTeamID: result.Shot.DefendingTeamID,
		X:               int64(result.Shot.Target.X),
		Y:               int64(result.Shot.Target.Y),
		CreatedAt:       now,
	})
	if isUniqueViolation(err) {
		return apperrors.New(apperrors.CodeDuplicateShot, "You've already shot there!")
	}
	if err != nil {
		return fmt.Errorf("failed to record shot: %w", err)
	}
	result.Shot.ID = shotID
	result.Shot.CreatedAt = now

	if err := qtx.UpdateTeamLastTurn(ctx, db.UpdateTeamLastTurnParams{
		LastTurn:  int64(result.Attacker.LastTurn),
		UpdatedAt: now,
		ID:        result.Attacker.ID,
	}); err != nil {
		return fmt.Errorf("failed to update last turn: %w", err)
	}

	n, err := qtx.AdvanceGameTurn(ctx, db.AdvanceGameTurnParams{
		UpdatedAt:    now,
		ID:           result.Shot.GameID,
		ExpectedTurn: int64(result.PreviousTurn),
	})
	if err != nil {
		return fmt.Errorf("failed to advance turn: %w", err)
	}
	if n != 1 {
		return apperrors.New(apperrors.CodeConcurrentMove, "another move was made first, reload the game")
	}

	if result.Defeated {
		if err := qtx.UpdateTeamAlive(ctx, db.UpdateTeamAliveParams{
			Alive:     false,
			UpdatedAt: now,
			ID:        result.Defender.ID,
		}); err != nil {
			return fmt.Errorf("failed to mark team defeated: %w", err)
		}
	}

	if result.Winner != nil {
		n, err := qtx.MarkTeamWinner(ctx, db.MarkTeamWinnerParams{UpdatedAt: now, ID: result.Winner.ID})
		if err != nil {
			return fmt.Errorf("failed to mark winner: %w", err)
		}
		if n != 1 {
			return apperrors.New(apperrors.CodeConcurrentMove, "winner is no longer alive")
		}
		if err := qtx.UpdateGameStatus(ctx, db.UpdateGameStatusParams{
			Status:    string(domain.GameStatusWon),
			UpdatedAt: now,
			ID:        result.Shot.GameID,
		}); err != nil {
			return fmt.Errorf("failed to close game: %w", err)
		}
	}
	return nil
}

// ListActive returns the games in which the player's team is still alive,
// newest first, with the other players' names.
func (r *GameRepository) ListActive(ctx context.Context, playerID string, limit int) ([]domain.GameSummary, error) {
	games, err := r.queries.ListActiveGamesByPlayer(ctx, db.ListActiveGamesByPlayerParams{
		PlayerID: playerID,
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	result := make([]domain.GameSummary, 0, len(games))
	for _, g := range games {
		teams, err := r.queries.ListTeamsByGame(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams of game %s: %w", g.ID, err)
		}
		summary := domain.GameSummary{
			GameID:    g.ID,
			Turn:      int(g.Turn),
			Status:    domain.GameStatus(g.Status),
			CreatedAt: g.CreatedAt,
		}
		for _, t := range teams {
			if t.PlayerID != playerID {
				summary.Opponents = append(summary.Opponents, t.Username)
			}
		}
		result = append(result, summary)
	}
	return result, nil
}

func (r *GameRepository) getGame(ctx context.Context, q *db.Queries, gameID string) (db.Game, error) {
	game, err := q.GetGame(ctx, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Game{}, apperrors.WithMetadata(
			apperrors.CodeGameNotFound,
			"game not found",
			map[string]string{"game_id": gameID},
		)
	}
	if err != nil {
		return db.Game{}, fmt.Errorf("failed to get game %s: %w", gameID, err)
	}
	return game, nil
}

// readSnapshot reads sequentially; q must be bound to a single connection.
func (r *GameRepository) readSnapshot(ctx context.Context, qtx *db.Queries, gameID string) (*engine.Snapshot, error) {
	game, err := r.getGame(ctx, qtx, gameID)
	if err != nil {
		return nil, err
	}
	teams, err := qtx.ListTeamsByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	ships, err := qtx.ListShipsByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ships: %w", err)
	}
	shots, err := qtx.ListShotsByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shots: %w", err)
	}
	return buildSnapshot(game, teams, ships, shots), nil
}

func buildSnapshot(game db.Game, teams []db.Team, ships []db.Ship, shots []db.Shot) *engine.Snapshot {
	snap := &engine.Snapshot{
		Game: domain.Game{
			ID:        game.ID,
			Turn:      int(game.Turn),
			Status:    domain.GameStatus(game.Status),
			CreatedAt: game.CreatedAt,
			UpdatedAt: game.UpdatedAt,
		},
		Teams: make([]domain.Team, len(teams)),
		Ships: make(map[string][]domain.Ship, len(teams)),
		Shots: make([]domain.Shot, len(shots)),
	}
	for i, t := range teams {
		snap.Teams[i] = toDomainTeam(t)
	}
	for _, s := range ships {
		snap.Ships[s.TeamID] = append(snap.Ships[s.TeamID], domain.Ship{
			ID:        s.ID,
			TeamID:    s.TeamID,
			Origin:    domain.Coord{X: int(s.X), Y: int(s.Y)},
			Length:    int(s.Length),
			Direction: domain.Direction(s.Direction),
		})
	}
	for i, s := range shots {
		snap.Shots[i] = domain.Shot{
			ID:              s.ID,
			GameID:          s.GameID,
			AttackingTeamID: s.AttackingTeamID,
			DefendingTeamID: s.DefendingTeamID,
			Target:          domain.Coord{X: int(s.X), Y: int(s.Y)},
			CreatedAt:       s.CreatedAt,
		}
	}
	return snap
}

func toDomainTeam(t db.Team) domain.Team {
	return domain.Team{
		ID:       t.ID,
		GameID:   t.GameID,
		PlayerID: t.PlayerID,
		Username: t.Username,
		Seat:     int(t.Seat),
		LastTurn: int(t.LastTurn),
		Alive:    t.Alive,
		Winner:   t.Winner,
	}
}
