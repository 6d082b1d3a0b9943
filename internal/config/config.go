package config

import (
	"fmt"
	"strings"
	"time"

	"battleships/internal/constants"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath               string        `env:"DB_PATH" envDefault:"battleships.db"`
	ServerPort           string        `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret            string        `env:"JWT_SECRET"`
	TokenTTL             time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	MaxPlayers           int           `env:"MAX_PLAYERS" envDefault:"4"`
	ShipLengths          []int         `env:"SHIP_LENGTHS" envDefault:"2,3,3,4,5" envSeparator:","`
	PlacementMaxAttempts int           `env:"PLACEMENT_MAX_ATTEMPTS" envDefault:"1000"`
	RandomSeed           uint64        `env:"RANDOM_SEED" envDefault:"0"`
	IdentityURL          string        `env:"IDENTITY_URL"`
	IdentityTimeout      time.Duration `env:"IDENTITY_TIMEOUT" envDefault:"5s"`
	CORSOrigins          []string      `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

func Load() (*Config, error) {
	// a missing .env is fine, the environment and defaults still apply
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	cfg.IdentityURL = strings.TrimRight(strings.TrimSpace(cfg.IdentityURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	// one letter per seat in board names, and at least one opponent
	if c.MaxPlayers < 2 || c.MaxPlayers > 26 {
		return fmt.Errorf("MAX_PLAYERS must be between 2 and 26, got %d", c.MaxPlayers)
	}
	if len(c.ShipLengths) == 0 {
		return fmt.Errorf("SHIP_LENGTHS must not be empty")
	}
	total := 0
	for _, l := range c.ShipLengths {
		if l < 1 || l > constants.GameSize {
			return fmt.Errorf("ship length %d out of range [1, %d]", l, constants.GameSize)
		}
		total += l
	}
	if total > constants.GameSize*constants.GameSize {
		return fmt.Errorf("fleet of %d tiles does not fit a %dx%d board", total, constants.GameSize, constants.GameSize)
	}
	if c.PlacementMaxAttempts < 1 {
		return fmt.Errorf("PLACEMENT_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// LogLoaded reports the effective configuration once the logger exists.
func LogLoaded(cfg *Config, logger zerolog.Logger) {
	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("token_ttl", cfg.TokenTTL).
		Int("max_players", cfg.MaxPlayers).
		Ints("ship_lengths", cfg.ShipLengths).
		Bool("seeded", cfg.RandomSeed != 0).
		Bool("remote_identity", cfg.IdentityURL != "").
		Msg("configuration loaded")
}

var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(LogLoaded),
)
