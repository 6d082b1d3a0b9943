package fx

import (
	"database/sql"

	"battleships/internal/auth"
	"battleships/internal/config"
	"battleships/internal/database"
	"battleships/internal/db"
	"battleships/internal/identity"
	"battleships/internal/logger"
	"battleships/internal/random"
	"battleships/internal/repository"
	"battleships/internal/server"
	"battleships/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

var Module = fx.Options(
	config.Module,
	logger.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewGameRepository),
	// collaborators
	fx.Provide(identity.NewDirectory),
	fx.Provide(auth.NewTokenIssuer),
	fx.Provide(random.FromConfig),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewGameService),
	// server
	fx.Provide(server.NewGameServer),
)
