package engine

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"battleships/internal/apperrors"
	"battleships/internal/constants"
	"battleships/internal/domain"
)

// Placer lays out fleets by rejection sampling. After maxAttempts rejected
// candidates for one ship it falls back to a deterministic row-major scan.
type Placer struct {
	rng         *rand.Rand
	maxAttempts int
}

func NewPlacer(rng *rand.Rand, maxAttempts int) *Placer {
	if maxAttempts < 1 {
		maxAttempts = constants.DefaultPlacementMaxAttempts
	}
	return &Placer{rng: rng, maxAttempts: maxAttempts}
}

// PlaceFleet returns one in-bounds, non-overlapping ship per length, in the
// order given. The ships are not persisted.
func (p *Placer) PlaceFleet(teamID string, lengths []int) ([]domain.Ship, error) {
	ships := make([]domain.Ship, 0, len(lengths))
	for i, length := range lengths {
		ship, ok := p.sample(teamID, length, ships)
		if !ok {
			ship, ok = scan(teamID, length, ships)
		}
		if !ok {
			return nil, apperrors.WithMetadata(
				apperrors.CodePlacementExhausted,
				fmt.Sprintf("no room for ship %d of length %d", i, length),
				map[string]string{"team_id": teamID, "length": strconv.Itoa(length)},
			)
		}
		ships = append(ships, ship)
	}
	return ships, nil
}

func (p *Placer) sample(teamID string, length int, placed []domain.Ship) (domain.Ship, bool) {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		candidate := domain.Ship{
			TeamID: teamID,
			Origin: domain.Coord{
				X: p.rng.IntN(constants.GameSize),
				Y: p.rng.IntN(constants.GameSize),
			},
			Length:    length,
			Direction: domain.Directions[p.rng.IntN(len(domain.Directions))],
		}
		if fits(candidate, placed) {
			return candidate, true
		}
	}
	return domain.Ship{}, false
}

func scan(teamID string, length int, placed []domain.Ship) (domain.Ship, bool) {
	for y := 0; y < constants.GameSize; y++ {
		for x := 0; x < constants.GameSize; x++ {
			for _, d := range domain.Directions {
				candidate := domain.Ship{
					TeamID:    teamID,
					Origin:    domain.Coord{X: x, Y: y},
					Length:    length,
					Direction: d,
				}
				if fits(candidate, placed) {
					return candidate, true
				}
			}
		}
	}
	return domain.Ship{}, false
}

func fits(candidate domain.Ship, placed []domain.Ship) bool {
	if !ValidPlacement(candidate) {
		return false
	}
	for _, other := range placed {
		if Overlapping(candidate, other) {
			return false
		}
	}
	return true
}
