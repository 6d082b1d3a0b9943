package engine

import "battleships/internal/domain"

// NextTeam picks the alive team with the smallest LastTurn. Ties go to the
// lower seat, then the lower id. Dead teams are never candidates.
func NextTeam(teams []domain.Team) (domain.Team, bool) {
	var next domain.Team
	found := false
	for _, t := range teams {
		if !t.Alive {
			continue
		}
		if !found || before(t, next) {
			next = t
			found = true
		}
	}
	return next, found
}

func before(a, b domain.Team) bool {
	if a.LastTurn != b.LastTurn {
		return a.LastTurn < b.LastTurn
	}
	if a.Seat != b.Seat {
		return a.Seat < b.Seat
	}
	return a.ID < b.ID
}

// IsNext reports whether the team with teamID holds the turn.
func IsNext(teams []domain.Team, teamID string) bool {
	next, ok := NextTeam(teams)
	return ok && next.ID == teamID
}

// AliveTeams returns the alive teams in their original order.
func AliveTeams(teams []domain.Team) []domain.Team {
	var alive []domain.Team
	for _, t := range teams {
		if t.Alive {
			alive = append(alive, t)
		}
	}
	return alive
}
