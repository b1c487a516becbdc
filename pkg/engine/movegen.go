package engine

import "fmt"

// Skeleton is one legal use of a die from a given origin.
type Skeleton struct {
	Kind        MoveKind
	Origin      ContainerID
	Destination ContainerID
	Die         int
	Hit         bool // Destination holds a lone opposing checker
}

// PossibleMoves returns every legal single use of die for player p.
//
// A checker on p's bar makes re-entry the only candidate: when the entry
// point is closed the result is empty and no board point is considered.
// Otherwise each occupied point is tried from the furthest to the nearest,
// yielding either a point-to-point move or a bear-off.
//
// An empty result is not an error; errors are returned only for an invalid
// board, player or die.
func PossibleMoves(b Board, p Player, die int) ([]Skeleton, error) {
	if err := checkInputs(&b, p, die); err != nil {
		return nil, err
	}

	bar := BarID(p.Direction)
	if b.Count(bar, p.Color) > 0 {
		sk, err := resolve(&b, p, bar, die)
		if err != nil {
			return nil, nil
		}
		return []Skeleton{sk}, nil
	}

	var out []Skeleton
	for pos := NumPoints; pos >= 1; pos-- {
		origin := PointAt(p.Direction, pos)
		if b.Count(origin, p.Color) == 0 {
			continue
		}
		sk, err := resolve(&b, p, origin, die)
		if err != nil {
			continue
		}
		out = append(out, sk)
	}
	return out, nil
}

// HasLegalMove reports whether die has at least one legal use for p.
func HasLegalMove(b Board, p Player, die int) bool {
	moves, err := PossibleMoves(b, p, die)
	return err == nil && len(moves) > 0
}

// CanBearOff reports whether every checker of p is inside p's home board
// (or already borne off).
func CanBearOff(b Board, p Player) bool {
	return b.valid && p.Valid() && checkersOutsideHome(&b, p) == 0
}

func validDie(die int) bool {
	return die >= 1 && die <= 6
}

func checkInputs(b *Board, p Player, die int) error {
	if !b.valid {
		return ErrInvalidBoard
	}
	if !p.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidPlayer, p)
	}
	if !validDie(die) {
		return fmt.Errorf("%w: %d", ErrInvalidDie, die)
	}
	return nil
}

// resolve checks one use of die from origin against b and works out where
// the checker lands. It is the single source of legality for the generator,
// Classify, Preview and Apply.
func resolve(b *Board, p Player, origin ContainerID, die int) (Skeleton, error) {
	if !origin.Valid() {
		return Skeleton{}, fmt.Errorf("%w: %d", ErrInvalidContainer, origin)
	}
	switch origin.Kind() {
	case ContainerOff:
		return Skeleton{}, ErrInvalidOrigin
	case ContainerBar:
		if origin.Direction() != p.Direction {
			return Skeleton{}, ErrInvalidOrigin
		}
	case ContainerPoint:
	}

	occupant, n := b.Occupant(origin)
	if n == 0 {
		return Skeleton{}, ErrEmptyOrigin
	}
	if occupant != p.Color {
		return Skeleton{}, ErrWrongColor
	}

	bar := BarID(p.Direction)
	if origin == bar {
		dest := PointAt(p.Direction, BarPosition-die)
		if !open(b, p, dest) {
			return Skeleton{}, ErrNoOpenPoint
		}
		return Skeleton{Kind: KindReenter, Origin: origin, Destination: dest, Die: die, Hit: blot(b, p, dest)}, nil
	}
	if b.Count(bar, p.Color) > 0 {
		return Skeleton{}, ErrMustReenter
	}

	target := origin.Position(p.Direction) - die
	if target >= 1 {
		dest := PointAt(p.Direction, target)
		if !open(b, p, dest) {
			return Skeleton{}, ErrBlocked
		}
		return Skeleton{Kind: KindPointToPoint, Origin: origin, Destination: dest, Die: die, Hit: blot(b, p, dest)}, nil
	}

	// Bearing off. The highest occupied point is derived from b on every
	// call since earlier bear-offs in the same turn change it.
	if checkersOutsideHome(b, p) > 0 {
		return Skeleton{}, ErrCheckersOutsideHome
	}
	if target < 0 && highestOccupied(b, p) > origin.Position(p.Direction) {
		return Skeleton{}, ErrHigherPointOccupied
	}
	return Skeleton{Kind: KindBearOff, Origin: origin, Destination: OffID(p.Direction), Die: die}, nil
}

// open reports whether p may land on dest: fewer than two opposing checkers.
func open(b *Board, p Player, dest ContainerID) bool {
	return b.Count(dest, p.Color.Opposite()) < 2
}

// blot reports whether landing on dest hits a lone opposing checker.
func blot(b *Board, p Player, dest ContainerID) bool {
	return b.Count(dest, p.Color.Opposite()) == 1
}

func checkersOutsideHome(b *Board, p Player) int {
	n := b.Count(BarID(p.Direction), p.Color)
	for pos := HomePoints + 1; pos <= NumPoints; pos++ {
		n += b.Count(PointAt(p.Direction, pos), p.Color)
	}
	return n
}

// highestOccupied returns the furthest point of p from bear-off, 0 if none.
func highestOccupied(b *Board, p Player) int {
	for pos := NumPoints; pos >= 1; pos-- {
		if b.Count(PointAt(p.Direction, pos), p.Color) > 0 {
			return pos
		}
	}
	return 0
}
