package server

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionResponse struct {
	PlayerID  string `json:"player_id"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type CreateGameRequest struct {
	Opponents []string `json:"opponents"`
}

type CreateGameResponse struct {
	GameID string `json:"game_id"`
}

type GetGameRequest struct {
	GameID string `json:"game_id"`
}

type Tile struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Name    string `json:"name"`
	IsEmpty bool   `json:"is_empty"`
	IsHit   bool   `json:"is_hit"`
}

type Team struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Seat     int      `json:"seat"`
	IsNext   bool     `json:"is_next"`
	Winner   bool     `json:"winner"`
	Alive    bool     `json:"alive"`
	IsViewer bool     `json:"is_viewer"`
	Tiles    [][]Tile `json:"tiles"`
	Board    string   `json:"board"`
}

type GameResponse struct {
	ID                string   `json:"id"`
	Turn              int      `json:"turn"`
	Status            string   `json:"status"`
	ViewerTeamID      string   `json:"viewer_team_id"`
	IsPlayerNext      bool     `json:"is_player_next"`
	AttackableTeamIDs []string `json:"attackable_team_ids"`
	Teams             []Team   `json:"teams"`
}

type AttackRequest struct {
	GameID          string `json:"game_id"`
	DefendingTeamID string `json:"defending_team_id"`
	X               *int   `json:"x,omitempty"`
	Y               *int   `json:"y,omitempty"`
	Tile            string `json:"tile,omitempty"`
}

type AttackResponse struct {
	Tile         string   `json:"tile"`
	Hit          bool     `json:"hit"`
	Defeated     bool     `json:"defeated"`
	WinnerTeamID *string  `json:"winner_team_id,omitempty"`
	Turn         int      `json:"turn"`
	Messages     []string `json:"messages"`
}

type ListGamesRequest struct{}

type GameSummary struct {
	GameID    string   `json:"game_id"`
	Turn      int      `json:"turn"`
	Status    string   `json:"status"`
	Opponents []string `json:"opponents"`
	CreatedAt string   `json:"created_at"`
}

type ListGamesResponse struct {
	Games []GameSummary `json:"games"`
}

type GetPlayerRequest struct {
	Username string `json:"username"`
}

type PlayerResponse struct {
	Username   string `json:"username"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	InProgress int    `json:"in_progress"`
}
