package service

import (
	"context"
	"fmt"
	"strings"

	"battleships/internal/apperrors"
	"battleships/internal/auth"
	"battleships/internal/config"
	"battleships/internal/constants"
	"battleships/internal/domain"
	"battleships/internal/engine"
	"battleships/internal/identity"
	"battleships/internal/random"
	"battleships/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type GameService struct {
	games       *repository.GameRepository
	directory   identity.Directory
	rng         *random.Source
	shipLengths []int
	maxPlayers  int
	maxAttempts int
	logger      zerolog.Logger
}

func NewGameService(
	cfg *config.Config,
	games *repository.GameRepository,
	directory identity.Directory,
	rng *random.Source,
	logger zerolog.Logger,
) *GameService {
	return &GameService{
		games:       games,
		directory:   directory,
		rng:         rng,
		shipLengths: cfg.ShipLengths,
		maxPlayers:  cfg.MaxPlayers,
		maxAttempts: cfg.PlacementMaxAttempts,
		logger:      logger,
	}
}

// GameDetail is a game presentation from one participant's point of view.
type GameDetail struct {
	engine.GameView
	ViewerTeamID string
	IsPlayerNext bool
	Attackable   []engine.TeamView
}

// Create starts a game between the creator and the named opponents. Blank
// names are skipped; at least one opponent is required. The creator moves
// first, then the opponents in the order given.
func (s *GameService) Create(ctx context.Context, creator auth.Principal, opponentNames []string) (*domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	names, err := normalizeOpponents(creator.Username, opponentNames, s.maxPlayers)
	if err != nil {
		return nil, err
	}

	opponents := make([]*domain.Player, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			p, err := s.directory.LookupPlayer(gctx, name)
			if err != nil {
				return err
			}
			opponents[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, p := range opponents {
		if p.ID == creator.PlayerID {
			return nil, apperrors.WithMetadata(
				apperrors.CodeInvalidOpponents,
				"you cannot play against yourself",
				map[string]string{"opponent": names[i]},
			)
		}
	}

	placer := engine.NewPlacer(s.rng.Fork(), s.maxAttempts)
	setups := make([]repository.TeamSetup, 0, len(opponents)+1)
	playerIDs := make([]string, 0, len(opponents)+1)
	playerIDs = append(playerIDs, creator.PlayerID)
	for _, p := range opponents {
		playerIDs = append(playerIDs, p.ID)
	}
	for seat, playerID := range playerIDs {
		ships, err := placer.PlaceFleet("", s.shipLengths)
		if err != nil {
			s.log(ctx).Error().Err(err).Ints("ship_lengths", s.shipLengths).Msg("fleet placement failed")
			return nil, err
		}
		lastTurn := constants.OpponentSeedTurn
		if seat == 0 {
			lastTurn = constants.CreatorSeedTurn
		}
		setups = append(setups, repository.TeamSetup{
			Team:  domain.Team{PlayerID: playerID, Seat: seat, LastTurn: lastTurn},
			Ships: ships,
		})
	}

	game, err := s.games.Create(ctx, setups)
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info().
		Str("game_id", game.ID).
		Str("player_id", creator.PlayerID).
		Strs("opponents", names).
		Msg("game created")
	return game, nil
}

// Get presents the game to a participant. Outsiders get NOT_PARTICIPANT,
// which the transport reports exactly like a missing game.
func (s *GameService) Get(ctx context.Context, viewer auth.Principal, gameID string) (*GameDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := s.games.Snapshot(ctx, gameID)
	if err != nil {
		return nil, err
	}
	own, ok := snap.TeamOf(viewer.PlayerID)
	if !ok {
		return nil, apperrors.WithMetadata(
			apperrors.CodeNotParticipant,
			fmt.Sprintf("player %s is not in game %s", viewer.PlayerID, gameID),
			map[string]string{"game_id": gameID},
		)
	}

	detail := &GameDetail{
		GameView:     engine.PresentGame(snap),
		ViewerTeamID: own.ID,
	}
	views := make(map[string]engine.TeamView, len(detail.Teams))
	for _, view := range detail.Teams {
		views[view.ID] = view
	}
	detail.IsPlayerNext = views[own.ID].IsNext
	for _, team := range engine.AliveTeams(snap.Teams) {
		if team.ID != own.ID {
			detail.Attackable = append(detail.Attackable, views[team.ID])
		}
	}
	return detail, nil
}

// Attack resolves and applies one shot inside a single write transaction.
// The target's shape is checked by Resolve after the turn and defender.
func (s *GameService) Attack(ctx context.Context, attacker auth.Principal, gameID string, target engine.Target) (*engine.AttackResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	result, err := s.games.Attack(ctx, gameID, func(snap *engine.Snapshot) (*engine.AttackResult, error) {
		return engine.Resolve(snap, attacker.PlayerID, target)
	})
	if err != nil {
		s.log(ctx).Debug().
			Err(err).
			Str("game_id", gameID).
			Str("player_id", attacker.PlayerID).
			Str("code", string(apperrors.CodeOf(err))).
			Msg("attack rejected")
		return nil, err
	}

	event := s.log(ctx).Info().
		Str("game_id", gameID).
		Str("team_id", result.Attacker.ID).
		Str("defending_team_id", result.Defender.ID).
		Str("tile", engine.TileName(result.Shot.Target)).
		Bool("hit", result.Hit).
		Bool("defeated", result.Defeated)
	if result.Winner != nil {
		event = event.Str("winner_team_id", result.Winner.ID)
	}
	event.Msg("attack applied")

	return result, nil
}

// ListGames returns the games the player is still alive in, newest first.
func (s *GameService) ListGames(ctx context.Context, player auth.Principal) ([]domain.GameSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	return s.games.ListActive(ctx, player.PlayerID, constants.GameListLimit)
}

// log prefers the request-scoped logger carried by ctx.
func (s *GameService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func normalizeOpponents(creator string, raw []string, maxPlayers int) ([]string, error) {
	if len(raw) > maxPlayers-1 {
		return nil, apperrors.New(
			apperrors.CodeInvalidOpponents,
			fmt.Sprintf("a game has at most %d opponents", maxPlayers-1),
		)
	}

	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if name == creator {
			return nil, apperrors.WithMetadata(
				apperrors.CodeInvalidOpponents,
				"you cannot play against yourself",
				map[string]string{"opponent": name},
			)
		}
		if _, dup := seen[name]; dup {
			return nil, apperrors.WithMetadata(
				apperrors.CodeInvalidOpponents,
				fmt.Sprintf("%s is listed more than once", name),
				map[string]string{"opponent": name},
			)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidOpponents, "at least one opponent is required")
	}
	return names, nil
}
