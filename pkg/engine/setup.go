package engine

import "fmt"

// Placement puts Quantity checkers of Color into one container. Exactly one
// of Point, Bar or Off selects the container; Bar and Off also need the
// Direction of travel they serve.
type Placement struct {
	Point     *PointPosition `yaml:"point,omitempty"`
	Bar       bool           `yaml:"bar,omitempty"`
	Off       bool           `yaml:"off,omitempty"`
	Direction Direction      `yaml:"direction,omitempty"`
	Color     Color          `yaml:"color"`
	Quantity  int            `yaml:"quantity"`
}

// PointPlacement places checkers on the point at forward distance pos for
// direction d.
func PointPlacement(d Direction, pos int, c Color, quantity int) Placement {
	pp := PointAt(d, pos).PointPosition()
	return Placement{Point: &pp, Color: c, Quantity: quantity}
}

// BarPlacement places checkers of color c on the bar for direction d.
func BarPlacement(d Direction, c Color, quantity int) Placement {
	return Placement{Bar: true, Direction: d, Color: c, Quantity: quantity}
}

// OffPlacement places checkers of color c on the off tray for direction d.
func OffPlacement(d Direction, c Color, quantity int) Placement {
	return Placement{Off: true, Direction: d, Color: c, Quantity: quantity}
}

// container resolves the placement's target container.
func (pl Placement) container() (ContainerID, error) {
	selectors := 0
	if pl.Point != nil {
		selectors++
	}
	if pl.Bar {
		selectors++
	}
	if pl.Off {
		selectors++
	}
	if selectors != 1 {
		return NoContainer, fmt.Errorf("%w: need exactly one of point, bar or off", ErrInvalidPlacement)
	}

	switch {
	case pl.Point != nil:
		if !pl.Point.Valid() {
			return NoContainer, fmt.Errorf("%w: point %d/%d", ErrInvalidPlacement,
				pl.Point.Clockwise, pl.Point.Counterclockwise)
		}
		return pl.Point.ID(), nil
	case !pl.Direction.Valid():
		return NoContainer, fmt.Errorf("%w: bar and off need a direction", ErrInvalidPlacement)
	case pl.Bar:
		return BarID(pl.Direction), nil
	default:
		return OffID(pl.Direction), nil
	}
}

// StartingPlacements returns the standard opening position for two players:
// 2 checkers on the 24 point, 5 on the 13, 3 on the 8 and 5 on the 6, each
// counted in the player's own direction.
func StartingPlacements(a, b Player) []Placement {
	var out []Placement
	for _, p := range [2]Player{a, b} {
		out = append(out,
			PointPlacement(p.Direction, 24, p.Color, 2),
			PointPlacement(p.Direction, 13, p.Color, 5),
			PointPlacement(p.Direction, 8, p.Color, 3),
			PointPlacement(p.Direction, 6, p.Color, 5),
		)
	}
	return out
}

// NewBoard builds a board from placement records. A nil slice yields the
// standard starting position for DefaultPlayers; an empty, non-nil slice
// yields an empty board.
func NewBoard(placements []Placement) (Board, error) {
	if placements == nil {
		placements = StartingPlacements(DefaultPlayers())
	}

	var b Board
	var totals [3]int
	var travels [3]Color // Color seen on each direction's bar/off tray

	for i, pl := range placements {
		id, err := pl.container()
		if err != nil {
			return Board{}, fmt.Errorf("placement %d: %w", i, err)
		}
		if !pl.Color.Valid() {
			return Board{}, fmt.Errorf("placement %d: %w: missing color", i, ErrInvalidPlacement)
		}
		if pl.Quantity < 0 {
			return Board{}, fmt.Errorf("placement %d: %w: negative quantity", i, ErrInvalidPlacement)
		}
		if pl.Quantity == 0 {
			continue
		}

		if occupant, n := b.Occupant(id); n > 0 && occupant != pl.Color {
			return Board{}, fmt.Errorf("placement %d: %w: %s already holds %s checkers",
				i, ErrInvalidPlacement, id, occupant)
		}
		if !id.IsPoint() {
			d := id.Direction()
			if travels[d] != NoColor && travels[d] != pl.Color {
				return Board{}, fmt.Errorf("placement %d: %w: both colors travel %s",
					i, ErrInvalidPlacement, d)
			}
			travels[d] = pl.Color
		}

		totals[pl.Color] += pl.Quantity
		if totals[pl.Color] > MaxPerColor {
			return Board{}, fmt.Errorf("placement %d: %w: %s has %d",
				i, ErrTooManyCheckers, pl.Color, totals[pl.Color])
		}
		for q := 0; q < pl.Quantity; q++ {
			b.add(pl.Color, id)
		}
	}

	if travels[Clockwise] != NoColor && travels[Clockwise] == travels[Counterclockwise] {
		return Board{}, fmt.Errorf("%w: %s cannot travel both directions",
			ErrInvalidPlacement, travels[Clockwise])
	}

	b.valid = true
	return b, nil
}

// MustNewBoard is like NewBoard but panics on error. Intended for tests and
// fixed positions.
func MustNewBoard(placements []Placement) Board {
	b, err := NewBoard(placements)
	if err != nil {
		panic(err)
	}
	return b
}
