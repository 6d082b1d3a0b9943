package domain

import (
	"time"
)

type GameStatus string

const (
	GameStatusPlaying GameStatus = "playing"
	GameStatusWon     GameStatus = "won"
)

// Direction values are persisted; do not reorder.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

var Directions = []Direction{North, South, East, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

func (d Direction) Valid() bool {
	return d >= North && d <= West
}

type Coord struct {
	X int
	Y int
}

type Player struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Game struct {
	ID        string
	Turn      int // global ply counter across all teams
	Status    GameStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Team struct {
	ID       string
	GameID   string
	PlayerID string
	Username string
	Seat     int // join order, 0 is the creator
	LastTurn int
	Alive    bool
	Winner   bool
}

type Ship struct {
	ID        string
	TeamID    string
	Origin    Coord
	Length    int
	Direction Direction
}

type Shot struct {
	ID              string
	GameID          string
	AttackingTeamID string
	DefendingTeamID string
	Target          Coord
	CreatedAt       time.Time
}

// PlayerStats aggregates a player's teams across every game.
type PlayerStats struct {
	Username   string
	Wins       int
	Losses     int
	InProgress int
}

// GameSummary is a row of a player's game listing.
type GameSummary struct {
	GameID    string
	Turn      int
	Status    GameStatus
	Opponents []string
	CreatedAt time.Time
}
