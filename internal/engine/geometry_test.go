package engine

import (
	"testing"

	"battleships/internal/apperrors"
	"battleships/internal/constants"
	"battleships/internal/domain"
)

func ship(x, y, length int, d domain.Direction) domain.Ship {
	return domain.Ship{Origin: domain.Coord{X: x, Y: y}, Length: length, Direction: d}
}

func TestFootprint(t *testing.T) {
	tests := []struct {
		dir    domain.Direction
		dx, dy int
	}{
		{domain.North, 0, -1},
		{domain.South, 0, 1},
		{domain.East, 1, 0},
		{domain.West, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			origin := domain.Coord{X: 5, Y: 5}
			tiles := Footprint(origin, 4, tt.dir)
			if len(tiles) != 4 {
				t.Fatalf("expected 4 tiles, got %d", len(tiles))
			}
			if tiles[0] != origin {
				t.Fatalf("expected first tile %v, got %v", origin, tiles[0])
			}
			for i := 1; i < len(tiles); i++ {
				gotDX := tiles[i].X - tiles[i-1].X
				gotDY := tiles[i].Y - tiles[i-1].Y
				if gotDX != tt.dx || gotDY != tt.dy {
					t.Fatalf("step %d: expected (%d,%d), got (%d,%d)", i, tt.dx, tt.dy, gotDX, gotDY)
				}
			}
		})
	}
}

func TestFootprintEmpty(t *testing.T) {
	if tiles := Footprint(domain.Coord{}, 0, domain.East); len(tiles) != 0 {
		t.Fatalf("expected no tiles, got %v", tiles)
	}
}

func TestValidPlacementBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		ship  domain.Ship
		valid bool
	}{
		{"east flush", ship(6, 5, 4, domain.East), true},
		{"east over", ship(7, 5, 4, domain.East), false},
		{"west flush", ship(3, 5, 4, domain.West), true},
		{"west over", ship(2, 5, 4, domain.West), false},
		{"south flush", ship(5, 6, 4, domain.South), true},
		{"south over", ship(5, 7, 4, domain.South), false},
		{"north flush", ship(5, 3, 4, domain.North), true},
		{"north over", ship(5, 2, 4, domain.North), false},
		{"origin left of board", ship(-1, 5, 2, domain.East), false},
		{"origin right of board", ship(10, 5, 2, domain.West), false},
		{"origin above board", ship(5, -1, 2, domain.South), false},
		{"origin below board", ship(5, 10, 2, domain.North), false},
		{"corner single", ship(9, 9, 1, domain.North), true},
		{"zero length", ship(0, 0, 0, domain.East), false},
		{"bad direction", ship(0, 0, 2, domain.Direction(7)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPlacement(tt.ship); got != tt.valid {
				t.Fatalf("expected %v, got %v for %+v", tt.valid, got, tt.ship)
			}
		})
	}
}

func TestOverlapping(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Ship
		want bool
	}{
		{"crossing", ship(2, 4, 4, domain.East), ship(4, 2, 4, domain.South), true},
		{"parallel", ship(2, 4, 4, domain.South), ship(4, 2, 4, domain.South), false},
		{"end to end touching", ship(0, 0, 2, domain.East), ship(2, 0, 2, domain.East), false},
		{"side by side", ship(0, 0, 3, domain.East), ship(0, 1, 3, domain.East), false},
		{"same origin", ship(3, 3, 2, domain.North), ship(3, 3, 2, domain.West), true},
		{"opposite directions share tail", ship(0, 0, 3, domain.East), ship(4, 0, 3, domain.West), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlapping(tt.a, tt.b); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got := Overlapping(tt.b, tt.a); got != tt.want {
				t.Fatalf("overlap not symmetric: expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTileName(t *testing.T) {
	if got := TileName(domain.Coord{X: 0, Y: 0}); got != "A0" {
		t.Fatalf("expected A0, got %s", got)
	}
	if got := TileName(domain.Coord{X: 3, Y: 4}); got != "D4" {
		t.Fatalf("expected D4, got %s", got)
	}
}

func TestTileNameRoundTrip(t *testing.T) {
	for y := 0; y < constants.GameSize; y++ {
		for x := 0; x < constants.GameSize; x++ {
			c := domain.Coord{X: x, Y: y}
			got, err := ParseTileName(TileName(c))
			if err != nil {
				t.Fatalf("parse %s: %v", TileName(c), err)
			}
			if got != c {
				t.Fatalf("round trip %v became %v", c, got)
			}
		}
	}
}

func TestParseTileName(t *testing.T) {
	got, err := ParseTileName(" j9 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != (domain.Coord{X: 9, Y: 9}) {
		t.Fatalf("expected (9,9), got %v", got)
	}

	zero, err := ParseTileName("A0")
	if err != nil || zero != (domain.Coord{X: 0, Y: 0}) {
		t.Fatalf("parse A0: %v, %v", zero, err)
	}

	far, err := ParseTileName("Z9")
	if err != nil {
		t.Fatalf("parse Z9: %v", err)
	}
	if far.X != 25 || InBounds(far) {
		t.Fatalf("expected out-of-bounds column 25, got %v", far)
	}

	for _, bad := range []string{"", "A", "1A", "A-1", "AA", "?3", "B1x", "A05", "c00"} {
		_, err := ParseTileName(bad)
		if !apperrors.HasCode(err, apperrors.CodeInvalidTarget) {
			t.Errorf("%q: expected invalid target, got %v", bad, err)
		}
	}
}
