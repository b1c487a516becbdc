package engine

import (
	"fmt"

	"github.com/yourusername/bgrules/internal/positionid"
)

// tanBoard converts b to the perspective table used by positionid, with
// onRoll as side 1.
func tanBoard(b *Board, onRoll Player) positionid.Board {
	var tb positionid.Board
	for side, p := range [2]Player{Opponent(onRoll), onRoll} {
		for pos := 1; pos <= NumPoints; pos++ {
			tb[side][pos-1] = uint8(b.Count(PointAt(p.Direction, pos), p.Color))
		}
		tb[side][positionid.BarIndex] = uint8(b.Count(BarID(p.Direction), p.Color))
	}
	return tb
}

// positionKey returns the comparable key of b as seen by onRoll.
func positionKey(b *Board, onRoll Player) positionid.PositionKey {
	return positionid.MakePositionKey(tanBoard(b, onRoll))
}

// PositionID returns the GNU Backgammon position ID of b with onRoll as the
// player on roll.
func PositionID(b Board, onRoll Player) (string, error) {
	if !b.valid {
		return "", ErrInvalidBoard
	}
	if !onRoll.Valid() {
		return "", ErrInvalidPlayer
	}
	return positionid.PositionID(tanBoard(&b, onRoll)), nil
}

// BoardFromPositionID decodes a GNU Backgammon position ID with onRoll as the
// player on roll. Checkers missing from the ID are placed on each side's off
// tray, so both colors always total 15.
func BoardFromPositionID(id string, onRoll Player) (Board, error) {
	if !onRoll.Valid() {
		return Board{}, ErrInvalidPlayer
	}
	tb, err := positionid.BoardFromPositionID(id)
	if err != nil {
		return Board{}, fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}

	placements := []Placement{}
	for side, p := range [2]Player{Opponent(onRoll), onRoll} {
		onBoard := 0
		for pos := 1; pos <= NumPoints; pos++ {
			n := int(tb[side][pos-1])
			placements = append(placements, PointPlacement(p.Direction, pos, p.Color, n))
			onBoard += n
		}
		n := int(tb[side][positionid.BarIndex])
		placements = append(placements, BarPlacement(p.Direction, p.Color, n))
		onBoard += n
		placements = append(placements, OffPlacement(p.Direction, p.Color, MaxPerColor-onBoard))
	}
	return NewBoard(placements)
}
