package engine

import (
	"slices"
	"testing"

	"battleships/internal/apperrors"
	"battleships/internal/domain"
)

func intp(v int) *int { return &v }

func at(x, y int) Target { return Target{X: intp(x), Y: intp(y)} }

func aim(defender string, t Target) Target {
	t.DefendingTeamID = defender
	return t
}

// twoTeamSnapshot has alice to move against bob, whose single ship covers
// (1,1) only.
func twoTeamSnapshot() *Snapshot {
	return &Snapshot{
		Game: domain.Game{ID: "g1", Turn: 0, Status: domain.GameStatusPlaying},
		Teams: []domain.Team{
			{ID: "ta", GameID: "g1", PlayerID: "alice", Username: "alice", Seat: 0, LastTurn: -2, Alive: true},
			{ID: "tb", GameID: "g1", PlayerID: "bob", Username: "bob", Seat: 1, LastTurn: -1, Alive: true},
		},
		Ships: map[string][]domain.Ship{
			"ta": {{TeamID: "ta", Origin: domain.Coord{X: 0, Y: 0}, Length: 2, Direction: domain.East}},
			"tb": {{TeamID: "tb", Origin: domain.Coord{X: 1, Y: 1}, Length: 1, Direction: domain.North}},
		},
	}
}

func expectCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if !apperrors.HasCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestResolvePreconditionOrder(t *testing.T) {
	snap := twoTeamSnapshot()

	// an outsider sees the participation failure whatever else is wrong
	_, err := Resolve(snap, "mallory", aim("nobody", at(99, 99)))
	expectCode(t, err, apperrors.CodeNotParticipant)

	// bob is out of turn even with a bad target
	_, err = Resolve(snap, "bob", aim("tb", at(99, 99)))
	expectCode(t, err, apperrors.CodeNotYourTurn)

	// defender is checked before bounds
	_, err = Resolve(snap, "alice", aim("ta", at(99, 99)))
	expectCode(t, err, apperrors.CodeInvalidDefender)

	_, err = Resolve(snap, "alice", aim("tb", at(10, 0)))
	expectCode(t, err, apperrors.CodeTargetOutOfBounds)
}

func TestResolveInvalidDefenders(t *testing.T) {
	snap := twoTeamSnapshot()
	snap.Teams = append(snap.Teams, domain.Team{ID: "tc", PlayerID: "carol", Username: "carol", Seat: 2, LastTurn: -1, Alive: false})

	tests := []struct {
		name     string
		defender string
	}{
		{"self", "ta"},
		{"eliminated", "tc"},
		{"unknown", "tz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(snap, "alice", aim(tt.defender, at(0, 0)))
			expectCode(t, err, apperrors.CodeInvalidDefender)
		})
	}
}

func TestResolveOutOfBoundsTileName(t *testing.T) {
	_, err := Resolve(twoTeamSnapshot(), "alice", Target{DefendingTeamID: "tb", Tile: "K0"})
	expectCode(t, err, apperrors.CodeTargetOutOfBounds)

	_, err = Resolve(twoTeamSnapshot(), "alice", Target{DefendingTeamID: "tb", X: intp(0), Y: intp(-1)})
	expectCode(t, err, apperrors.CodeTargetOutOfBounds)
}

func TestTargetValidate(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		ok     bool
	}{
		{"coordinates", Target{DefendingTeamID: "tb", X: intp(1), Y: intp(2)}, true},
		{"tile", Target{DefendingTeamID: "tb", Tile: "B2"}, true},
		{"both", Target{DefendingTeamID: "tb", X: intp(1), Y: intp(2), Tile: "B2"}, false},
		{"neither", Target{DefendingTeamID: "tb"}, false},
		{"only x", Target{DefendingTeamID: "tb", X: intp(1)}, false},
		{"no defender", Target{Tile: "B2"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				expectCode(t, err, apperrors.CodeInvalidTarget)
			}
		})
	}
}

func TestResolveMiss(t *testing.T) {
	snap := twoTeamSnapshot()
	snap.Game.Turn = 7

	result, err := Resolve(snap, "alice", aim("tb", Target{Tile: "E5"}))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.Hit || result.Defeated || result.Winner != nil {
		t.Fatalf("expected a plain miss, got %+v", result)
	}
	if result.Shot.Target != (domain.Coord{X: 4, Y: 5}) {
		t.Fatalf("unexpected shot target %v", result.Shot.Target)
	}
	if result.Attacker.LastTurn != 7 || result.PreviousTurn != 7 || result.GameTurn != 8 {
		t.Fatalf("unexpected turn bookkeeping %+v", result)
	}
	if !slices.Equal(result.Messages(), []string{"Miss!"}) {
		t.Fatalf("unexpected messages %v", result.Messages())
	}
	if snap.Teams[0].LastTurn != -2 {
		t.Fatal("snapshot must not be mutated")
	}
}

func TestResolveDuplicateShot(t *testing.T) {
	snap := twoTeamSnapshot()
	snap.Shots = []domain.Shot{{GameID: "g1", AttackingTeamID: "ta", DefendingTeamID: "tb", Target: domain.Coord{X: 3, Y: 3}}}

	_, err := Resolve(snap, "alice", aim("tb", at(3, 3)))
	expectCode(t, err, apperrors.CodeDuplicateShot)

	// the same tile fired by someone else does not count
	snap.Shots[0].AttackingTeamID = "tc"
	if _, err := Resolve(snap, "alice", aim("tb", at(3, 3))); err != nil {
		t.Fatalf("expected shot to be accepted, got %v", err)
	}
}

func TestResolveEliminationAndVictory(t *testing.T) {
	snap := twoTeamSnapshot()

	result, err := Resolve(snap, "alice", aim("tb", at(1, 1)))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !result.Hit || !result.Defeated {
		t.Fatalf("expected hit and defeat, got %+v", result)
	}
	if result.Defender.Alive {
		t.Fatal("defender should be dead")
	}
	if result.Winner == nil || result.Winner.ID != "ta" || !result.Winner.Winner {
		t.Fatalf("expected alice to win, got %+v", result.Winner)
	}
	want := []string{"Hit!", "You defeated bob!", "You won!"}
	if !slices.Equal(result.Messages(), want) {
		t.Fatalf("expected %v, got %v", want, result.Messages())
	}
}

func TestResolveDefeatCountsOtherAttackersShots(t *testing.T) {
	snap := twoTeamSnapshot()
	snap.Teams = append(snap.Teams, domain.Team{ID: "tc", PlayerID: "carol", Username: "carol", Seat: 2, LastTurn: -1, Alive: true})
	snap.Ships["tb"] = []domain.Ship{{TeamID: "tb", Origin: domain.Coord{X: 1, Y: 1}, Length: 2, Direction: domain.East}}
	snap.Shots = []domain.Shot{{GameID: "g1", AttackingTeamID: "tc", DefendingTeamID: "tb", Target: domain.Coord{X: 2, Y: 1}}}

	result, err := Resolve(snap, "alice", aim("tb", at(1, 1)))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !result.Defeated {
		t.Fatal("expected bob to be defeated by the combined shots")
	}
	if result.Winner != nil {
		t.Fatalf("two teams remain, no winner expected, got %+v", result.Winner)
	}
	if !slices.Equal(result.Messages(), []string{"Hit!", "You defeated bob!"}) {
		t.Fatalf("unexpected messages %v", result.Messages())
	}
}

func TestResolveHitWithoutSinking(t *testing.T) {
	snap := twoTeamSnapshot()
	snap.Ships["tb"] = []domain.Ship{{TeamID: "tb", Origin: domain.Coord{X: 1, Y: 1}, Length: 3, Direction: domain.South}}

	result, err := Resolve(snap, "alice", aim("tb", Target{Tile: "B2"}))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !result.Hit || result.Defeated {
		t.Fatalf("expected hit without defeat, got %+v", result)
	}
}

func TestResolveGameOver(t *testing.T) {
	snap := twoTeamSnapshot()
	snap.Game.Status = domain.GameStatusWon

	_, err := Resolve(snap, "alice", aim("tb", at(0, 0)))
	expectCode(t, err, apperrors.CodeGameOver)
}

func TestResolveDeadAttacker(t *testing.T) {
	snap := twoTeamSnapshot()
	snap.Teams = append(snap.Teams, domain.Team{ID: "tc", PlayerID: "carol", Username: "carol", Seat: 2, LastTurn: 5, Alive: true})
	snap.Teams[0].Alive = false

	_, err := Resolve(snap, "alice", aim("tc", at(0, 0)))
	expectCode(t, err, apperrors.CodeNotYourTurn)
}
