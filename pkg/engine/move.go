package engine

import (
	"fmt"
	"strconv"
)

// MoveKind classifies a single use of a die.
type MoveKind int8

const (
	KindUnresolved MoveKind = iota // Not yet classified
	KindPointToPoint
	KindReenter
	KindBearOff
	KindNoMove // The die has no legal use and is retired
)

// String returns the kind name.
func (k MoveKind) String() string {
	switch k {
	case KindPointToPoint:
		return "point-to-point"
	case KindReenter:
		return "reenter"
	case KindBearOff:
		return "bear-off"
	case KindNoMove:
		return "no-move"
	default:
		return "unresolved"
	}
}

// MoveState is the lifecycle of a move: ready, in progress, completed and
// finally confirmed once the turn is committed.
type MoveState int8

const (
	MoveReady MoveState = iota
	MoveInProgress
	MoveCompleted
	MoveConfirmed
)

// String returns the state name.
func (s MoveState) String() string {
	switch s {
	case MoveReady:
		return "ready"
	case MoveInProgress:
		return "in-progress"
	case MoveCompleted:
		return "completed"
	case MoveConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Move is one atomic use of one die.
type Move struct {
	Player      Player
	Die         int
	Kind        MoveKind
	State       MoveState
	Origin      ContainerID
	Destination ContainerID // Set once resolved
	Hit         bool        // An opposing blot was sent to the bar
}

// NewMove returns a ready move of one checker from origin.
func NewMove(p Player, origin ContainerID, die int) Move {
	return Move{Player: p, Die: die, Origin: origin, Destination: NoContainer}
}

// NoMove returns a ready move that retires die without moving a checker.
func NoMove(p Player, die int) Move {
	return Move{Player: p, Die: die, Kind: KindNoMove, Origin: NoContainer, Destination: NoContainer}
}

// Completed reports whether the move has been applied (or retired).
func (m Move) Completed() bool {
	return m.State == MoveCompleted || m.State == MoveConfirmed
}

// String formats the move in the mover's own coordinates, e.g. "13/10*",
// "bar/22", "3/off" or "no-move(5)".
func (m Move) String() string {
	if m.Kind == KindNoMove {
		return fmt.Sprintf("no-move(%d)", m.Die)
	}
	s := formatEnd(m.Origin, m.Player.Direction) + "/" + formatEnd(m.Destination, m.Player.Direction)
	if m.Hit {
		s += "*"
	}
	return s
}

func formatEnd(id ContainerID, d Direction) string {
	switch {
	case id.IsPoint():
		return strconv.Itoa(id.Position(d))
	case id.Kind() == ContainerBar && id.Valid():
		return "bar"
	case id.Kind() == ContainerOff:
		return "off"
	default:
		return "?"
	}
}

// transition moves m to state to, rejecting every edge the lifecycle does
// not allow. Only a no-move may skip the in-progress state.
func (m Move) transition(to MoveState) (Move, error) {
	var ok bool
	switch m.State {
	case MoveReady:
		ok = to == MoveInProgress || (to == MoveCompleted && m.Kind == KindNoMove)
	case MoveInProgress:
		ok = to == MoveCompleted
	case MoveCompleted:
		ok = to == MoveConfirmed
	case MoveConfirmed:
		ok = false
	}
	if !ok {
		return m, fmt.Errorf("%w: move %s -> %s", ErrInvalidTransition, m.State, to)
	}
	m.State = to
	return m, nil
}

// Classify returns the kind of move die would make from origin on b.
// Structural problems are returned as errors; a move the rules forbid
// classifies as KindNoMove.
func Classify(b Board, origin ContainerID, p Player, die int) (MoveKind, error) {
	if err := checkInputs(&b, p, die); err != nil {
		return KindUnresolved, moveError(err, p, origin, die)
	}
	sk, err := resolve(&b, p, origin, die)
	switch {
	case err == nil:
		return sk.Kind, nil
	case IsRuleViolation(err):
		return KindNoMove, nil
	default:
		return KindUnresolved, moveError(err, p, origin, die)
	}
}

// Preview resolves m against b without applying it: the returned move has
// its kind, destination and hit flag filled in and is still ready.
func Preview(b Board, m Move) (Move, error) {
	if err := checkInputs(&b, m.Player, m.Die); err != nil {
		return m, moveError(err, m.Player, m.Origin, m.Die)
	}
	if m.Completed() {
		return m, moveError(ErrMoveCompleted, m.Player, m.Origin, m.Die)
	}

	if m.Kind == KindNoMove {
		if HasLegalMove(b, m.Player, m.Die) {
			return m, moveError(ErrMoveAvailable, m.Player, NoContainer, m.Die)
		}
		m.Origin, m.Destination, m.Hit = NoContainer, NoContainer, false
		return m, nil
	}

	sk, err := resolve(&b, m.Player, m.Origin, m.Die)
	if err != nil {
		return m, moveError(err, m.Player, m.Origin, m.Die)
	}
	m.Kind, m.Destination, m.Hit = sk.Kind, sk.Destination, sk.Hit
	return m, nil
}

// Apply validates m against b and returns the board after the move together
// with the completed move. b itself is never modified.
//
// A hit relocates the lone opposing checker to its owner's bar before the
// mover lands. A no-move returns b unchanged.
func Apply(b Board, m Move) (Board, Move, error) {
	resolved, err := Preview(b, m)
	if err != nil {
		return b, m, err
	}
	m = resolved

	if m.Kind == KindNoMove {
		m, err = m.transition(MoveCompleted)
		return b, m, err
	}

	if m, err = m.transition(MoveInProgress); err != nil {
		return b, m, err
	}

	next := b
	if m.Hit {
		next.relocate(m.Destination, BarID(m.Player.Direction.Opposite()))
	}
	next.relocate(m.Origin, m.Destination)

	m, err = m.transition(MoveCompleted)
	return next, m, err
}
