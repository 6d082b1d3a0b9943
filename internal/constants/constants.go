package constants

import "time"

const (
	GameSize = 10
)

const (
	// Staggered seeds so the creator moves first and opponents follow by seat.
	CreatorSeedTurn  = -2
	OpponentSeedTurn = -1
)

const (
	DefaultMaxPlayers           = 4
	DefaultPlacementMaxAttempts = 1000
)

var DefaultShipLengths = []int{2, 3, 3, 4, 5}

const (
	IdentityTimeout = 5 * time.Second
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 16
	DBMaxIdleConns    = 4
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	UsernameMaxLength = 100
	PasswordMinLength = 8
	GameListLimit     = 50
)
