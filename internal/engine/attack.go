package engine

import (
	"fmt"

	"battleships/internal/apperrors"
	"battleships/internal/domain"
)

// Snapshot is one consistent read of a game's records.
type Snapshot struct {
	Game  domain.Game
	Teams []domain.Team            // ordered by seat
	Ships map[string][]domain.Ship // keyed by team id
	Shots []domain.Shot
}

func (s *Snapshot) Team(id string) (domain.Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Team{}, false
}

func (s *Snapshot) TeamOf(playerID string) (domain.Team, bool) {
	for _, t := range s.Teams {
		if t.PlayerID == playerID {
			return t, true
		}
	}
	return domain.Team{}, false
}

// ShotsAgainst returns every shot fired at the team, by any attacker.
func (s *Snapshot) ShotsAgainst(teamID string) []domain.Shot {
	var shots []domain.Shot
	for _, shot := range s.Shots {
		if shot.DefendingTeamID == teamID {
			shots = append(shots, shot)
		}
	}
	return shots
}

// Target names the defender and the tile, either as X/Y or as a tile name
// such as "D4". Exactly one of the two forms must be set.
type Target struct {
	DefendingTeamID string
	X               *int
	Y               *int
	Tile            string
}

// Validate checks the shape of the target form. Bounds are checked by Resolve.
func (t Target) Validate() error {
	if t.DefendingTeamID == "" {
		return apperrors.New(apperrors.CodeInvalidTarget, "a defending team is required")
	}
	hasXY := t.X != nil || t.Y != nil
	hasTile := t.Tile != ""
	switch {
	case hasXY && hasTile:
		return apperrors.New(apperrors.CodeInvalidTarget, "give either coordinates or a tile name, not both")
	case !hasXY && !hasTile:
		return apperrors.New(apperrors.CodeInvalidTarget, "a target tile is required")
	case hasXY && (t.X == nil || t.Y == nil):
		return apperrors.New(apperrors.CodeInvalidTarget, "both x and y are required")
	}
	return nil
}

// Coord decodes the target tile without checking bounds.
func (t Target) Coord() (domain.Coord, error) {
	if err := t.Validate(); err != nil {
		return domain.Coord{}, err
	}
	if t.Tile != "" {
		return ParseTileName(t.Tile)
	}
	return domain.Coord{X: *t.X, Y: *t.Y}, nil
}

// AttackResult carries the records an accepted attack changes. Nothing is
// applied to the snapshot it was computed from.
type AttackResult struct {
	Shot         domain.Shot
	Attacker     domain.Team // LastTurn set to the pre-attack game turn
	Defender     domain.Team // Alive cleared when the fleet is sunk
	PreviousTurn int
	GameTurn     int
	Hit          bool
	Defeated     bool
	Winner       *domain.Team
}

// Messages renders the outcome for the attacker.
func (r AttackResult) Messages() []string {
	if !r.Hit {
		return []string{"Miss!"}
	}
	msgs := []string{"Hit!"}
	if r.Defeated {
		msgs = append(msgs, fmt.Sprintf("You defeated %s!", r.Defender.Username))
	}
	if r.Winner != nil && r.Winner.ID == r.Attacker.ID {
		msgs = append(msgs, "You won!")
	}
	return msgs
}

// Resolve validates an attack by playerID against the snapshot and computes
// its effects. Checks run in a fixed order and the first failure wins:
// participation, game over, turn, defender, target shape and bounds, duplicate.
func Resolve(snap *Snapshot, playerID string, target Target) (*AttackResult, error) {
	attacker, ok := snap.TeamOf(playerID)
	if !ok {
		return nil, apperrors.WithMetadata(
			apperrors.CodeNotParticipant,
			fmt.Sprintf("player %s is not in game %s", playerID, snap.Game.ID),
			map[string]string{"game_id": snap.Game.ID},
		)
	}

	if snap.Game.Status == domain.GameStatusWon {
		return nil, apperrors.New(apperrors.CodeGameOver, "the game is over")
	}

	if !attacker.Alive || !IsNext(snap.Teams, attacker.ID) {
		return nil, apperrors.New(apperrors.CodeNotYourTurn, "It's not your turn!")
	}

	defender, ok := snap.Team(target.DefendingTeamID)
	switch {
	case !ok:
		return nil, apperrors.New(apperrors.CodeInvalidDefender, "that team is not in this game")
	case defender.ID == attacker.ID:
		return nil, apperrors.New(apperrors.CodeInvalidDefender, "you cannot attack yourself")
	case !defender.Alive:
		return nil, apperrors.New(apperrors.CodeInvalidDefender, fmt.Sprintf("%s has already been defeated", defender.Username))
	}

	coord, err := target.Coord()
	if err != nil {
		return nil, err
	}
	if !InBounds(coord) {
		return nil, apperrors.WithMetadata(
			apperrors.CodeTargetOutOfBounds,
			fmt.Sprintf("(%d, %d) is off the board", coord.X, coord.Y),
			map[string]string{"x": fmt.Sprint(coord.X), "y": fmt.Sprint(coord.Y)},
		)
	}

	for _, shot := range snap.Shots {
		if shot.AttackingTeamID == attacker.ID && shot.DefendingTeamID == defender.ID && shot.Target == coord {
			return nil, apperrors.New(apperrors.CodeDuplicateShot, "You've already shot there!")
		}
	}

	result := &AttackResult{
		Shot: domain.Shot{
			GameID:          snap.Game.ID,
			AttackingTeamID: attacker.ID,
			DefendingTeamID: defender.ID,
			Target:          coord,
		},
		PreviousTurn: snap.Game.Turn,
		GameTurn:     snap.Game.Turn + 1,
	}

	attacker.LastTurn = snap.Game.Turn
	result.Attacker = attacker

	fleet := FleetTiles(snap.Ships[defender.ID])
	_, result.Hit = fleet[coord]

	hit := map[domain.Coord]struct{}{}
	for _, shot := range snap.ShotsAgainst(defender.ID) {
		if _, ok := fleet[shot.Target]; ok {
			hit[shot.Target] = struct{}{}
		}
	}
	if result.Hit {
		hit[coord] = struct{}{}
	}
	if len(hit) == len(fleet) {
		defender.Alive = false
		result.Defeated = true
	}
	result.Defender = defender

	after := make([]domain.Team, len(snap.Teams))
	for i, t := range snap.Teams {
		switch t.ID {
		case attacker.ID:
			t = attacker
		case defender.ID:
			t = defender
		}
		after[i] = t
	}
	if survivors := AliveTeams(after); len(survivors) == 1 {
		winner := survivors[0]
		winner.Winner = true
		result.Winner = &winner
	}

	return result, nil
}
