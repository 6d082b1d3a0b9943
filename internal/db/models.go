package db

import (
	"time"
)

type Player struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Game struct {
	ID        string
	Turn      int64
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Team rows carry the owning player's username from a join on players.
type Team struct {
	ID        string
	GameID    string
	PlayerID  string
	Username  string
	Seat      int64
	LastTurn  int64
	Alive     bool
	Winner    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Ship struct {
	ID        string
	TeamID    string
	X         int64
	Y         int64
	Length    int64
	Direction int64
	CreatedAt time.Time
}

type Shot struct {
	ID              string
	GameID          string
	AttackingTeamID string
	DefendingTeamID string
	X               int64
	Y               int64
	CreatedAt       time.Time
}
