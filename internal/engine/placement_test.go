package engine

import (
	"math/rand/v2"
	"testing"

	"battleships/internal/apperrors"
	"battleships/internal/constants"
	"battleships/internal/domain"
)

func assertFleet(t *testing.T, ships []domain.Ship, lengths []int) {
	t.Helper()
	if len(ships) != len(lengths) {
		t.Fatalf("expected %d ships, got %d", len(lengths), len(ships))
	}
	for i, s := range ships {
		if s.Length != lengths[i] {
			t.Fatalf("ship %d: expected length %d, got %d", i, lengths[i], s.Length)
		}
		if !ValidPlacement(s) {
			t.Fatalf("ship %d is off the board: %+v", i, s)
		}
		for j := 0; j < i; j++ {
			if Overlapping(s, ships[j]) {
				t.Fatalf("ships %d and %d overlap: %+v %+v", j, i, ships[j], s)
			}
		}
	}
}

func TestPlaceFleet(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		p := NewPlacer(rand.New(rand.NewPCG(seed, seed*7)), constants.DefaultPlacementMaxAttempts)
		ships, err := p.PlaceFleet("team-1", constants.DefaultShipLengths)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		assertFleet(t, ships, constants.DefaultShipLengths)
		for _, s := range ships {
			if s.TeamID != "team-1" {
				t.Fatalf("expected team id on ship, got %q", s.TeamID)
			}
		}
	}
}

func TestPlaceFleetDeterministic(t *testing.T) {
	a, err := NewPlacer(rand.New(rand.NewPCG(9, 9)), 100).PlaceFleet("t", constants.DefaultShipLengths)
	if err != nil {
		t.Fatalf("place a: %v", err)
	}
	b, err := NewPlacer(rand.New(rand.NewPCG(9, 9)), 100).PlaceFleet("t", constants.DefaultShipLengths)
	if err != nil {
		t.Fatalf("place b: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("ship %d differs with the same seed: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPlaceFleetFallsBackToScan(t *testing.T) {
	lengths := []int{10}
	for seed := uint64(1); seed <= 10; seed++ {
		p := NewPlacer(rand.New(rand.NewPCG(seed, 0)), 1)
		ships, err := p.PlaceFleet("t", lengths)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		assertFleet(t, ships, lengths)
	}
}

func TestScanIsRowMajor(t *testing.T) {
	s, ok := scan("t", 10, nil)
	if !ok {
		t.Fatal("expected a placement")
	}
	if s.Origin != (domain.Coord{X: 0, Y: 0}) || s.Direction != domain.South {
		t.Fatalf("expected (0,0) South, got %+v", s)
	}

	second, ok := scan("t", 10, []domain.Ship{s})
	if !ok {
		t.Fatal("expected a second placement")
	}
	if second.Origin != (domain.Coord{X: 1, Y: 0}) || second.Direction != domain.South {
		t.Fatalf("expected (1,0) South, got %+v", second)
	}
}

func TestPlaceFleetExhausted(t *testing.T) {
	lengths := make([]int, 11)
	for i := range lengths {
		lengths[i] = 10
	}
	p := NewPlacer(rand.New(rand.NewPCG(3, 4)), 5)

	_, err := p.PlaceFleet("t", lengths)
	if !apperrors.HasCode(err, apperrors.CodePlacementExhausted) {
		t.Fatalf("expected placement exhausted, got %v", err)
	}
}
