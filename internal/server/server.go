package server

import (
	"context"
	"net/http"
	"time"

	"battleships/internal/apperrors"
	"battleships/internal/auth"
	"battleships/internal/domain"
	"battleships/internal/engine"
	"battleships/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const (
	ServiceName = "battleships.v1.GameService"
	ServicePath = "/" + ServiceName + "/"

	RegisterProcedure   = ServicePath + "Register"
	LoginProcedure      = ServicePath + "Login"
	CreateGameProcedure = ServicePath + "CreateGame"
	GetGameProcedure    = ServicePath + "GetGame"
	AttackProcedure     = ServicePath + "Attack"
	ListGamesProcedure  = ServicePath + "ListGames"
	GetPlayerProcedure  = ServicePath + "GetPlayer"
)

type GameServer struct {
	playerSvc *service.PlayerService
	gameSvc   *service.GameService
	logger    zerolog.Logger
}

func NewGameServer(playerSvc *service.PlayerService, gameSvc *service.GameService, logger zerolog.Logger) *GameServer {
	return &GameServer{playerSvc: playerSvc, gameSvc: gameSvc, logger: logger}
}

// Handler mounts every procedure under ServicePath.
func (s *GameServer) Handler() (string, http.Handler) {
	opts := []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(errorInterceptor(s.logger)),
	}

	mux := http.NewServeMux()
	mux.Handle(RegisterProcedure, connect.NewUnaryHandler(RegisterProcedure, s.Register, opts...))
	mux.Handle(LoginProcedure, connect.NewUnaryHandler(LoginProcedure, s.Login, opts...))
	mux.Handle(CreateGameProcedure, connect.NewUnaryHandler(CreateGameProcedure, s.CreateGame, opts...))
	mux.Handle(GetGameProcedure, connect.NewUnaryHandler(GetGameProcedure, s.GetGame, opts...))
	mux.Handle(AttackProcedure, connect.NewUnaryHandler(AttackProcedure, s.Attack, opts...))
	mux.Handle(ListGamesProcedure, connect.NewUnaryHandler(ListGamesProcedure, s.ListGames, opts...))
	mux.Handle(GetPlayerProcedure, connect.NewUnaryHandler(GetPlayerProcedure, s.GetPlayer, opts...))
	return ServicePath, mux
}

// errorInterceptor turns application errors into connect errors. Anything
// without a code is logged and reported as internal.
func errorInterceptor(logger zerolog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			res, err := next(ctx, req)
			if err == nil {
				return res, nil
			}
			if apperrors.CodeOf(err) == apperrors.CodeUnknown {
				l := zerolog.Ctx(ctx)
				if l.GetLevel() == zerolog.Disabled {
					l = &logger
				}
				l.Error().Err(err).Str("procedure", req.Spec().Procedure).Msg("request failed")
			}
			return nil, apperrors.ToConnect(err)
		}
	}
}

func (s *GameServer) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[SessionResponse], error) {
	session, err := s.playerSvc.Register(ctx, req.Msg.Username, req.Msg.Password)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(toSessionResponse(session)), nil
}

func (s *GameServer) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[SessionResponse], error) {
	session, err := s.playerSvc.Login(ctx, req.Msg.Username, req.Msg.Password)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(toSessionResponse(session)), nil
}

func (s *GameServer) CreateGame(ctx context.Context, req *connect.Request[CreateGameRequest]) (*connect.Response[CreateGameResponse], error) {
	principal, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	game, err := s.gameSvc.Create(ctx, principal, req.Msg.Opponents)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&CreateGameResponse{GameID: game.ID}), nil
}

func (s *GameServer) GetGame(ctx context.Context, req *connect.Request[GetGameRequest]) (*connect.Response[GameResponse], error) {
	principal, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	detail, err := s.gameSvc.Get(ctx, principal, req.Msg.GameID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(toGameResponse(detail)), nil
}

func (s *GameServer) Attack(ctx context.Context, req *connect.Request[AttackRequest]) (*connect.Response[AttackResponse], error) {
	principal, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.gameSvc.Attack(ctx, principal, req.Msg.GameID, engine.Target{
		DefendingTeamID: req.Msg.DefendingTeamID,
		X:               req.Msg.X,
		Y:               req.Msg.Y,
		Tile:            req.Msg.Tile,
	})
	if err != nil {
		return nil, err
	}

	resp := &AttackResponse{
		Tile:     engine.TileName(result.Shot.Target),
		Hit:      result.Hit,
		Defeated: result.Defeated,
		Turn:     result.GameTurn,
		Messages: result.Messages(),
	}
	if result.Winner != nil {
		resp.WinnerTeamID = &result.Winner.ID
	}
	return connect.NewResponse(resp), nil
}

func (s *GameServer) ListGames(ctx context.Context, req *connect.Request[ListGamesRequest]) (*connect.Response[ListGamesResponse], error) {
	principal, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	games, err := s.gameSvc.ListGames(ctx, principal)
	if err != nil {
		return nil, err
	}

	resp := &ListGamesResponse{Games: make([]GameSummary, 0, len(games))}
	for _, g := range games {
		resp.Games = append(resp.Games, GameSummary{
			GameID:    g.GameID,
			Turn:      g.Turn,
			Status:    string(g.Status),
			Opponents: g.Opponents,
			CreatedAt: g.CreatedAt.Format(time.RFC3339),
		})
	}
	return connect.NewResponse(resp), nil
}

func (s *GameServer) GetPlayer(ctx context.Context, req *connect.Request[GetPlayerRequest]) (*connect.Response[PlayerResponse], error) {
	stats, err := s.playerSvc.Profile(ctx, req.Msg.Username)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PlayerResponse{
		Username:   stats.Username,
		Wins:       stats.Wins,
		Losses:     stats.Losses,
		InProgress: stats.InProgress,
	}), nil
}

func toSessionResponse(session *service.Session) *SessionResponse {
	return &SessionResponse{
		PlayerID:  session.Player.ID,
		Username:  session.Player.Username,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	}
}

// toGameResponse hides where opponents' unhit ships are until the game is won.
func toGameResponse(detail *service.GameDetail) *GameResponse {
	resp := &GameResponse{
		ID:                detail.ID,
		Turn:              detail.Turn,
		Status:            string(detail.Status),
		ViewerTeamID:      detail.ViewerTeamID,
		IsPlayerNext:      detail.IsPlayerNext,
		AttackableTeamIDs: make([]string, 0, len(detail.Attackable)),
		Teams:             make([]Team, 0, len(detail.Teams)),
	}
	for _, t := range detail.Attackable {
		resp.AttackableTeamIDs = append(resp.AttackableTeamIDs, t.ID)
	}

	for _, view := range detail.Teams {
		own := view.ID == detail.ViewerTeamID
		reveal := own || detail.Status == domain.GameStatusWon

		tiles := make([][]Tile, len(view.Tiles))
		for y, row := range view.Tiles {
			tiles[y] = make([]Tile, len(row))
			for x, tile := range row {
				tiles[y][x] = Tile{
					X:       tile.X,
					Y:       tile.Y,
					Name:    tile.Name,
					IsEmpty: tile.IsEmpty || (!reveal && !tile.IsHit),
					IsHit:   tile.IsHit,
				}
			}
		}

		resp.Teams = append(resp.Teams, Team{
			ID:       view.ID,
			Username: view.Username,
			Seat:     view.Seat,
			IsNext:   view.IsNext,
			Winner:   view.Winner,
			Alive:    view.Alive,
			IsViewer: own,
			Tiles:    tiles,
			Board:    engine.RenderBoard(view, reveal),
		})
	}
	return resp
}
