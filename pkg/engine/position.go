// Package engine provides the public API for the backgammon rules engine.
package engine

import (
	"fmt"
	"strings"
)

// Board geometry
const (
	NumPoints     = 24
	NumContainers = 28 // 24 points, 2 bars, 2 off trays
	MaxPerColor   = 15
	MaxCheckers   = 2 * MaxPerColor
	HomePoints    = 6  // Points 1-6 in a player's own direction
	BarPosition   = 25 // Forward distance of a checker on the bar
)

// Color identifies the owner of a checker.
type Color int8

const (
	NoColor Color = iota
	White
	Black
)

// String returns the lower-case color name.
func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// Valid reports whether c is White or Black.
func (c Color) Valid() bool {
	return c == White || c == Black
}

// Opposite returns the other color.
func (c Color) Opposite() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: color %d", ErrInvalidPlayer, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "white", "w":
		*c = White
	case "black", "b":
		*c = Black
	default:
		return fmt.Errorf("%w: unknown color %q", ErrInvalidPlayer, text)
	}
	return nil
}

// Direction is a player's direction of travel around the board.
type Direction int8

const (
	Clockwise Direction = iota + 1
	Counterclockwise
)

// String returns the lower-case direction name.
func (d Direction) String() string {
	switch d {
	case Clockwise:
		return "clockwise"
	case Counterclockwise:
		return "counterclockwise"
	default:
		return "none"
	}
}

// Valid reports whether d is Clockwise or Counterclockwise.
func (d Direction) Valid() bool {
	return d == Clockwise || d == Counterclockwise
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Clockwise:
		return Counterclockwise
	case Counterclockwise:
		return Clockwise
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: direction %d", ErrInvalidPlayer, d)
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "clockwise", "cw":
		*d = Clockwise
	case "counterclockwise", "anticlockwise", "ccw":
		*d = Counterclockwise
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidPlayer, text)
	}
	return nil
}

// Player is a color travelling in one direction.
type Player struct {
	Color     Color
	Direction Direction
}

// Valid reports whether both the color and the direction are set.
func (p Player) Valid() bool {
	return p.Color.Valid() && p.Direction.Valid()
}

// String returns e.g. "white(clockwise)".
func (p Player) String() string {
	return fmt.Sprintf("%s(%s)", p.Color, p.Direction)
}

// Opponent returns the other color travelling the other way.
func Opponent(p Player) Player {
	return Player{Color: p.Color.Opposite(), Direction: p.Direction.Opposite()}
}

// DefaultPlayers returns white moving clockwise and black moving
// counterclockwise.
func DefaultPlayers() (Player, Player) {
	return Player{Color: White, Direction: Clockwise}, Player{Color: Black, Direction: Counterclockwise}
}

// ContainerKind distinguishes points, bars and off trays.
type ContainerKind int8

const (
	ContainerPoint ContainerKind = iota
	ContainerBar
	ContainerOff
)

// String returns the kind name.
func (k ContainerKind) String() string {
	switch k {
	case ContainerPoint:
		return "point"
	case ContainerBar:
		return "bar"
	case ContainerOff:
		return "off"
	default:
		return "unknown"
	}
}

// ContainerID is the stable index of a checker container.
// 0-23 are the points (clockwise 1-24), then the two bars and the two off
// trays, one per direction of travel.
type ContainerID int8

// NoContainer marks an unset origin or destination.
const NoContainer ContainerID = -1

const (
	barClockwise        ContainerID = NumPoints
	barCounterclockwise ContainerID = NumPoints + 1
	offClockwise        ContainerID = NumPoints + 2
	offCounterclockwise ContainerID = NumPoints + 3
)

// Valid reports whether id names one of the 28 containers.
func (id ContainerID) Valid() bool {
	return id >= 0 && id < NumContainers
}

// Kind returns the container kind. Invalid ids report ContainerPoint.
func (id ContainerID) Kind() ContainerKind {
	switch id {
	case barClockwise, barCounterclockwise:
		return ContainerBar
	case offClockwise, offCounterclockwise:
		return ContainerOff
	default:
		return ContainerPoint
	}
}

// IsPoint reports whether id is one of the 24 points.
func (id ContainerID) IsPoint() bool {
	return id >= 0 && id < NumPoints
}

// Direction returns the direction of travel a bar or off tray serves.
// Points return the zero Direction.
func (id ContainerID) Direction() Direction {
	switch id {
	case barClockwise, offClockwise:
		return Clockwise
	case barCounterclockwise, offCounterclockwise:
		return Counterclockwise
	default:
		return 0
	}
}

// Position returns the forward distance to bear-off for a player moving in
// direction d: 1-24 for points, 25 for the bar and 0 for the off tray.
func (id ContainerID) Position(d Direction) int {
	switch {
	case id.IsPoint():
		cw := int(id) + 1
		if d == Counterclockwise {
			return NumPoints + 1 - cw
		}
		return cw
	case id.Kind() == ContainerBar:
		return BarPosition
	default:
		return 0
	}
}

// PointPosition returns both coordinates of a point.
func (id ContainerID) PointPosition() PointPosition {
	if !id.IsPoint() {
		return PointPosition{}
	}
	cw := int(id) + 1
	return PointPosition{Clockwise: cw, Counterclockwise: NumPoints + 1 - cw}
}

// String returns a readable container name.
func (id ContainerID) String() string {
	switch {
	case id.IsPoint():
		pp := id.PointPosition()
		return fmt.Sprintf("point %d/%d", pp.Clockwise, pp.Counterclockwise)
	case id.Valid():
		return fmt.Sprintf("%s(%s)", id.Kind(), id.Direction())
	default:
		return "none"
	}
}

// PointAt returns the point at forward distance pos (1-24) for direction d,
// or NoContainer when pos or d is out of range.
func PointAt(d Direction, pos int) ContainerID {
	if !d.Valid() || pos < 1 || pos > NumPoints {
		return NoContainer
	}
	if d == Counterclockwise {
		pos = NumPoints + 1 - pos
	}
	return ContainerID(pos - 1)
}

// BarID returns the bar that holds hit checkers travelling in direction d.
func BarID(d Direction) ContainerID {
	switch d {
	case Clockwise:
		return barClockwise
	case Counterclockwise:
		return barCounterclockwise
	default:
		return NoContainer
	}
}

// OffID returns the off tray for checkers travelling in direction d.
func OffID(d Direction) ContainerID {
	switch d {
	case Clockwise:
		return offClockwise
	case Counterclockwise:
		return offCounterclockwise
	default:
		return NoContainer
	}
}

// PointPosition is the dual coordinate of a point. Clockwise and
// Counterclockwise always sum to 25.
type PointPosition struct {
	Clockwise        int `yaml:"clockwise"`
	Counterclockwise int `yaml:"counterclockwise"`
}

// Valid reports whether both coordinates are 1-24 and sum to 25.
func (pp PointPosition) Valid() bool {
	return pp.Clockwise >= 1 && pp.Clockwise <= NumPoints &&
		pp.Counterclockwise >= 1 && pp.Counterclockwise <= NumPoints &&
		pp.Clockwise+pp.Counterclockwise == NumPoints+1
}

// ID returns the container id of the point, or NoContainer if invalid.
func (pp PointPosition) ID() ContainerID {
	if !pp.Valid() {
		return NoContainer
	}
	return ContainerID(pp.Clockwise - 1)
}

// CheckerID is a checker's index in the board's arena.
type CheckerID uint8

// Checker is a single playing piece.
type Checker struct {
	ID        CheckerID
	Color     Color
	Container ContainerID // Back-reference to the holding container
}

// stack is the ordered content of one container.
type stack struct {
	ids [MaxCheckers]CheckerID
	n   uint8
}

// Board is the full checker placement.
//
// Board is a fixed-size value: assigning or passing it copies every
// container, so a board derived from another never shares state with it.
// The zero Board is not a valid board; build one with NewBoard.
type Board struct {
	valid    bool
	checkers [MaxCheckers]Checker // Flat arena, indexed by CheckerID
	n        uint8                // Checkers in the arena
	stacks   [NumContainers]stack
}

// Valid reports whether b was built by NewBoard or derived from such a board.
func (b Board) Valid() bool {
	return b.valid
}

// Container is a read-only view of one checker container.
type Container struct {
	ID        ContainerID
	Kind      ContainerKind
	Position  PointPosition // Points only
	Direction Direction     // Bars and off trays only
	Checkers  []Checker     // Bottom to top
}

// Len returns the number of checkers held.
func (c Container) Len() int {
	return len(c.Checkers)
}

// Color returns the color occupying the container, or NoColor when empty.
func (c Container) Color() Color {
	if len(c.Checkers) == 0 {
		return NoColor
	}
	return c.Checkers[0].Color
}

// Container returns a view of the container with the given id.
func (b Board) Container(id ContainerID) (Container, error) {
	if !b.valid {
		return Container{}, ErrInvalidBoard
	}
	if !id.Valid() {
		return Container{}, fmt.Errorf("%w: %d", ErrInvalidContainer, id)
	}
	return b.view(id), nil
}

// Containers returns every container: the 24 points in clockwise order,
// then the bars and off trays.
func (b Board) Containers() []Container {
	if !b.valid {
		return nil
	}
	out := make([]Container, 0, NumContainers)
	for id := ContainerID(0); id < NumContainers; id++ {
		out = append(out, b.view(id))
	}
	return out
}

func (b *Board) view(id ContainerID) Container {
	c := Container{ID: id, Kind: id.Kind()}
	if id.IsPoint() {
		c.Position = id.PointPosition()
	} else {
		c.Direction = id.Direction()
	}
	s := &b.stacks[id]
	if s.n > 0 {
		c.Checkers = make([]Checker, s.n)
		for i := uint8(0); i < s.n; i++ {
			c.Checkers[i] = b.checkers[s.ids[i]]
		}
	}
	return c
}

// CheckersOf returns every checker of color c, in arena order.
func (b Board) CheckersOf(c Color) []Checker {
	var out []Checker
	for i := uint8(0); i < b.n; i++ {
		if b.checkers[i].Color == c {
			out = append(out, b.checkers[i])
		}
	}
	return out
}

// Occupant returns the color holding a container and how many checkers it has.
func (b Board) Occupant(id ContainerID) (Color, int) {
	if !id.Valid() {
		return NoColor, 0
	}
	s := &b.stacks[id]
	if s.n == 0 {
		return NoColor, 0
	}
	return b.checkers[s.ids[0]].Color, int(s.n)
}

// Count returns the number of checkers of color c in a container.
func (b Board) Count(id ContainerID, c Color) int {
	occupant, n := b.Occupant(id)
	if occupant != c {
		return 0
	}
	return n
}

// Total returns the number of checkers of color c on the board, the bars and
// the off trays.
func (b Board) Total(c Color) int {
	return len(b.CheckersOf(c))
}

// PipCount returns the sum of forward distances of every checker of p.
// Bar checkers count 25, borne-off checkers 0.
func (b Board) PipCount(p Player) int {
	pips := 0
	for i := uint8(0); i < b.n; i++ {
		ch := b.checkers[i]
		if ch.Color != p.Color {
			continue
		}
		pips += ch.Container.Position(p.Direction)
	}
	return pips
}

// add places a new checker of color c on top of container id.
func (b *Board) add(c Color, id ContainerID) {
	cid := CheckerID(b.n)
	b.checkers[cid] = Checker{ID: cid, Color: c, Container: id}
	b.n++
	s := &b.stacks[id]
	s.ids[s.n] = cid
	s.n++
}

// relocate moves the top checker of from onto to and returns it.
// Callers have already checked that from is not empty.
func (b *Board) relocate(from, to ContainerID) Checker {
	src := &b.stacks[from]
	src.n--
	cid := src.ids[src.n]
	src.ids[src.n] = 0

	dst := &b.stacks[to]
	dst.ids[dst.n] = cid
	dst.n++

	b.checkers[cid].Container = to
	return b.checkers[cid]
}
