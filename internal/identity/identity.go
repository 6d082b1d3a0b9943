// Package identity resolves usernames to players. The local directory reads
// the players table; the remote one asks an identity service over HTTP and
// mirrors what it finds so game records can reference it.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"battleships/internal/apperrors"
	"battleships/internal/config"
	"battleships/internal/domain"
	"battleships/internal/repository"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

type Directory interface {
	LookupPlayer(ctx context.Context, username string) (*domain.Player, error)
}

type LocalDirectory struct {
	players *repository.PlayerRepository
}

func NewLocalDirectory(players *repository.PlayerRepository) *LocalDirectory {
	return &LocalDirectory{players: players}
}

func (d *LocalDirectory) LookupPlayer(ctx context.Context, username string) (*domain.Player, error) {
	return d.players.GetByUsername(ctx, username)
}

type RemoteDirectory struct {
	baseURL string
	client  *fasthttp.Client
	players *repository.PlayerRepository
	logger  zerolog.Logger
}

type PlayerResponse struct {
	Username string `json:"username"`
}

func NewRemoteDirectory(baseURL string, timeout time.Duration, players *repository.PlayerRepository, logger zerolog.Logger) *RemoteDirectory {
	return &RemoteDirectory{
		baseURL: baseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		players: players,
		logger:  logger,
	}
}

func (d *RemoteDirectory) LookupPlayer(ctx context.Context, username string) (*domain.Player, error) {
	u := fmt.Sprintf("%s/players/%s", d.baseURL, url.PathEscape(username))
	resp, err := doRequest[PlayerResponse](ctx, d.client, u)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodePlayerNotFound) {
			return nil, apperrors.WithMetadata(
				apperrors.CodePlayerNotFound,
				fmt.Sprintf("User %s does not exist! Are you sure the username is correct?", username),
				map[string]string{"username": username},
			)
		}
		d.logger.Error().Err(err).Str("username", username).Msg("identity lookup failed")
		return nil, fmt.Errorf("failed to look up %s: %w", username, err)
	}
	if resp.Username == "" {
		resp.Username = username
	}
	return d.players.Ensure(ctx, resp.Username)
}

// NewDirectory picks the remote directory when IDENTITY_URL is set.
func NewDirectory(cfg *config.Config, players *repository.PlayerRepository, logger zerolog.Logger) Directory {
	if cfg.IdentityURL != "" {
		logger.Info().Str("identity_url", cfg.IdentityURL).Msg("using remote identity directory")
		return NewRemoteDirectory(cfg.IdentityURL, cfg.IdentityTimeout, players, logger)
	}
	return NewLocalDirectory(players)
}

func doRequest[T any](ctx context.Context, client *fasthttp.Client, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return nil, apperrors.New(apperrors.CodePlayerNotFound, "player not found")
	default:
		return nil, fmt.Errorf("identity error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
