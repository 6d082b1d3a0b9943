// Package engine holds the battleships rules: board geometry, fleet
// placement, turn order, attack resolution and board presentation. Every
// function here is pure over the records it is handed; persistence belongs to
// the repository layer.
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"battleships/internal/apperrors"
	"battleships/internal/constants"
	"battleships/internal/domain"
)

// InBounds reports whether c lies on the board.
func InBounds(c domain.Coord) bool {
	return c.X >= 0 && c.X < constants.GameSize &&
		c.Y >= 0 && c.Y < constants.GameSize
}

func step(d domain.Direction) (dx, dy int) {
	switch d {
	case domain.North:
		return 0, -1
	case domain.South:
		return 0, 1
	case domain.East:
		return 1, 0
	case domain.West:
		return -1, 0
	}
	return 0, 0
}

// Footprint returns the tiles covered by a ship of the given length laid from
// origin towards d, origin first. North decreases y.
func Footprint(origin domain.Coord, length int, d domain.Direction) []domain.Coord {
	if length <= 0 {
		return nil
	}
	dx, dy := step(d)
	tiles := make([]domain.Coord, length)
	for i := 0; i < length; i++ {
		tiles[i] = domain.Coord{X: origin.X + i*dx, Y: origin.Y + i*dy}
	}
	return tiles
}

func ShipTiles(s domain.Ship) []domain.Coord {
	return Footprint(s.Origin, s.Length, s.Direction)
}

// ValidPlacement reports whether the whole ship is on the board. There is no
// clamping: one tile off the edge invalidates the ship.
func ValidPlacement(s domain.Ship) bool {
	if s.Length < 1 || !s.Direction.Valid() {
		return false
	}
	for _, t := range ShipTiles(s) {
		if !InBounds(t) {
			return false
		}
	}
	return true
}

// Overlapping reports whether two ships share at least one tile.
func Overlapping(a, b domain.Ship) bool {
	occupied := make(map[domain.Coord]struct{}, a.Length)
	for _, t := range ShipTiles(a) {
		occupied[t] = struct{}{}
	}
	for _, t := range ShipTiles(b) {
		if _, ok := occupied[t]; ok {
			return true
		}
	}
	return false
}

// FleetTiles is the union of every ship's footprint.
func FleetTiles(ships []domain.Ship) map[domain.Coord]struct{} {
	tiles := make(map[domain.Coord]struct{})
	for _, s := range ships {
		for _, t := range ShipTiles(s) {
			tiles[t] = struct{}{}
		}
	}
	return tiles
}

// TileName renders a coordinate as column letter plus row number: (3,4) is "D4".
func TileName(c domain.Coord) string {
	return string(rune('A'+c.X)) + strconv.Itoa(c.Y)
}

// ParseTileName is the inverse of TileName. It accepts any column letter A-Z
// (case-insensitive) and rejects zero-padded rows such as "A05"; bounds are
// checked separately by the caller.
func ParseTileName(name string) (domain.Coord, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if len(name) < 2 {
		return domain.Coord{}, invalidTile(name)
	}
	col := name[0]
	if col < 'A' || col > 'Z' {
		return domain.Coord{}, invalidTile(name)
	}
	digits := name[1:]
	if len(digits) > 1 && digits[0] == '0' {
		return domain.Coord{}, invalidTile(name)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return domain.Coord{}, invalidTile(name)
		}
	}
	y, err := strconv.Atoi(digits)
	if err != nil {
		return domain.Coord{}, invalidTile(name)
	}
	return domain.Coord{X: int(col - 'A'), Y: y}, nil
}

func invalidTile(name string) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidTarget,
		fmt.Sprintf("%q is not a tile name", name),
		map[string]string{"tile": name},
	)
}
