package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"battleships/internal/apperrors"
	"battleships/internal/auth"
	"battleships/internal/constants"
	"battleships/internal/domain"
	"battleships/internal/engine"
	"battleships/internal/repository"

	"github.com/rs/zerolog"
)

type PlayerService struct {
	repo   *repository.PlayerRepository
	tokens *auth.TokenIssuer
	logger zerolog.Logger
}

func NewPlayerService(repo *repository.PlayerRepository, tokens *auth.TokenIssuer, logger zerolog.Logger) *PlayerService {
	return &PlayerService{repo: repo, tokens: tokens, logger: logger}
}

// Session is what a successful register or login hands back.
type Session struct {
	Player    domain.Player
	Token     string
	ExpiresAt time.Time
}

func (s *PlayerService) Register(ctx context.Context, username, password string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	player, err := s.repo.Create(ctx, username, hash)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("player_id", player.ID).Str("username", player.Username).Msg("player registered")
	return s.session(player)
}

func (s *PlayerService) Login(ctx context.Context, username, password string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	username = strings.TrimSpace(username)
	player, err := s.repo.GetByUsername(ctx, username)
	if apperrors.HasCode(err, apperrors.CodePlayerNotFound) {
		return nil, apperrors.New(apperrors.CodeBadCredentials, "incorrect username or password")
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(player.PasswordHash, password) {
		s.logger.Debug().Str("username", username).Msg("login rejected")
		return nil, apperrors.New(apperrors.CodeBadCredentials, "incorrect username or password")
	}

	s.logger.Info().Str("player_id", player.ID).Msg("player logged in")
	return s.session(player)
}

// Profile counts the player's wins, losses and games still in progress.
func (s *PlayerService) Profile(ctx context.Context, username string) (domain.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	player, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return domain.PlayerStats{}, err
	}
	teams, err := s.repo.Teams(ctx, player.ID)
	if err != nil {
		return domain.PlayerStats{}, err
	}
	return engine.Tally(player.Username, teams), nil
}

func (s *PlayerService) session(player *domain.Player) (*Session, error) {
	token, exp, err := s.tokens.Issue(*player)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &Session{Player: *player, Token: token, ExpiresAt: exp}, nil
}

func validateCredentials(username, password string) error {
	n := utf8.RuneCountInString(username)
	if n == 0 || n > constants.UsernameMaxLength {
		return apperrors.WithMetadata(
			apperrors.CodeInvalidCredentials,
			fmt.Sprintf("username must be between 1 and %d characters", constants.UsernameMaxLength),
			map[string]string{"field": "username"},
		)
	}
	if strings.IndexFunc(username, func(r rune) bool { return unicode.IsSpace(r) || r == '/' }) >= 0 {
		return apperrors.WithMetadata(
			apperrors.CodeInvalidCredentials,
			"username may not contain spaces or slashes",
			map[string]string{"field": "username"},
		)
	}
	if utf8.RuneCountInString(password) < constants.PasswordMinLength {
		return apperrors.WithMetadata(
			apperrors.CodeInvalidCredentials,
			fmt.Sprintf("password must be at least %d characters", constants.PasswordMinLength),
			map[string]string{"field": "password"},
		)
	}
	return nil
}
