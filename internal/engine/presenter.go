package engine

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"

	"battleships/internal/constants"
	"battleships/internal/domain"
)

type TileView struct {
	X       int
	Y       int
	Name    string
	IsEmpty bool
	IsHit   bool
}

type TeamView struct {
	ID       string
	PlayerID string
	Username string
	Seat     int
	IsNext   bool
	Winner   bool
	Alive    bool
	Tiles    [][]TileView // [y][x]
}

type GameView struct {
	ID     string
	Turn   int
	Status domain.GameStatus
	Teams  []TeamView
}

// PresentTeam projects a team's fleet and the shots it has received onto the
// board, row-major.
func PresentTeam(snap *Snapshot, team domain.Team) TeamView {
	fleet := FleetTiles(snap.Ships[team.ID])
	shotAt := make(map[domain.Coord]struct{})
	for _, shot := range snap.ShotsAgainst(team.ID) {
		shotAt[shot.Target] = struct{}{}
	}

	tiles := make([][]TileView, constants.GameSize)
	for y := 0; y < constants.GameSize; y++ {
		row := make([]TileView, constants.GameSize)
		for x := 0; x < constants.GameSize; x++ {
			c := domain.Coord{X: x, Y: y}
			_, occupied := fleet[c]
			_, hit := shotAt[c]
			row[x] = TileView{
				X:       x,
				Y:       y,
				Name:    TileName(c),
				IsEmpty: !occupied,
				IsHit:   hit,
			}
		}
		tiles[y] = row
	}

	return TeamView{
		ID:       team.ID,
		PlayerID: team.PlayerID,
		Username: team.Username,
		Seat:     team.Seat,
		IsNext:   IsNext(snap.Teams, team.ID),
		Winner:   team.Winner,
		Alive:    team.Alive,
		Tiles:    tiles,
	}
}

func PresentGame(snap *Snapshot) GameView {
	view := GameView{
		ID:     snap.Game.ID,
		Turn:   snap.Game.Turn,
		Status: snap.Game.Status,
		Teams:  make([]TeamView, 0, len(snap.Teams)),
	}
	for _, t := range snap.Teams {
		view.Teams = append(view.Teams, PresentTeam(snap, t))
	}
	return view
}

// Tally counts wins, losses and games in progress over a player's teams.
func Tally(username string, teams []domain.Team) domain.PlayerStats {
	stats := domain.PlayerStats{Username: username}
	for _, t := range teams {
		switch {
		case t.Winner:
			stats.Wins++
		case !t.Alive:
			stats.Losses++
		default:
			stats.InProgress++
		}
	}
	return stats
}

// RenderBoard draws a team's board as text. With reveal unset, ships are only
// visible where they have been hit.
//
//	~ water   S ship   X hit   O miss
func RenderBoard(view TeamView, reveal bool) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 2, 0, 1, ' ', 0)

	fmt.Fprint(w, "\t")
	for x := 0; x < constants.GameSize; x++ {
		fmt.Fprint(w, string(rune('A'+x))+"\t")
	}
	fmt.Fprint(w, "\n")

	for y, row := range view.Tiles {
		fmt.Fprint(w, strconv.Itoa(y)+"\t")
		for _, tile := range row {
			fmt.Fprint(w, tileGlyph(tile, reveal)+"\t")
		}
		fmt.Fprint(w, "\n")
	}
	w.Flush()
	return buf.String()
}

func tileGlyph(t TileView, reveal bool) string {
	switch {
	case t.IsHit && !t.IsEmpty:
		return "X"
	case t.IsHit:
		return "O"
	case !t.IsEmpty && reveal:
		return "S"
	default:
		return "~"
	}
}
