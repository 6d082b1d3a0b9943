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

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerRepository) Create(ctx context.Context, username, passwordHash string) (*domain.Player, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}
	now := time.Now().UTC()

	err = r.queries.CreatePlayer(ctx, db.CreatePlayerParams{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if isUniqueViolation(err) {
		return nil, apperrors.New(apperrors.CodeUsernameTaken, fmt.Sprintf("username %q is taken", username))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	r.logger.Debug().Str("player_id", id).Str("username", username).Msg("player created")
	return &domain.Player{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}, nil
}

// Ensure returns the player with username, creating a password-less record
// when none exists yet.
func (r *PlayerRepository) Ensure(ctx context.Context, username string) (*domain.Player, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}
	now := time.Now().UTC()
	if err := r.queries.EnsurePlayer(ctx, db.EnsurePlayerParams{
		ID:        id,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to ensure player %s: %w", username, err)
	}
	return r.GetByUsername(ctx, username)
}

func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	player, err := r.queries.GetPlayerByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WithMetadata(
			apperrors.CodePlayerNotFound,
			fmt.Sprintf("User %s does not exist! Are you sure the username is correct?", username),
			map[string]string{"username": username},
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", username, err)
	}
	return toDomainPlayer(player), nil
}

// Teams returns every team the player has had, across all games.
func (r *PlayerRepository) Teams(ctx context.Context, playerID string) ([]domain.Team, error) {
	teams, err := r.queries.ListTeamsByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	result := make([]domain.Team, len(teams))
	for i, t := range teams {
		result[i] = toDomainTeam(t)
	}
	return result, nil
}

func toDomainPlayer(p db.Player) *domain.Player {
	return &domain.Player{
		ID:           p.ID,
		Username:     p.Username,
		PasswordHash: p.PasswordHash,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
