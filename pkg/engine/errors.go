package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Structural errors. These abort the single operation and are never
// recovered silently.
var (
	ErrInvalidBoard      = errors.New("invalid board")
	ErrInvalidPlayer     = errors.New("invalid player")
	ErrInvalidDie        = errors.New("invalid die value")
	ErrInvalidContainer  = errors.New("invalid container")
	ErrInvalidOrigin     = errors.New("invalid move origin")
	ErrEmptyOrigin       = errors.New("origin holds no checkers")
	ErrWrongColor        = errors.New("origin holds the other color")
	ErrMoveCompleted     = errors.New("move already completed")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrInvalidTurn       = errors.New("invalid turn")
	ErrInvalidPlacement  = errors.New("invalid placement")
	ErrTooManyCheckers   = errors.New("more than 15 checkers of one color")
)

// Rule violations. These reject the operation; the caller decides what to
// do next.
var (
	ErrMustReenter         = errors.New("checker on the bar must re-enter first")
	ErrNoOpenPoint         = errors.New("no open point to re-enter")
	ErrBlocked             = errors.New("destination point is blocked")
	ErrCheckersOutsideHome = errors.New("checkers outside the home board")
	ErrHigherPointOccupied = errors.New("a higher point is still occupied")
	ErrMoveAvailable       = errors.New("die has a legal move")
	ErrNoLegalMove         = errors.New("no legal move")
	ErrTurnComplete        = errors.New("turn already complete")
)

var structuralErrors = []error{
	ErrInvalidBoard, ErrInvalidPlayer, ErrInvalidDie, ErrInvalidContainer,
	ErrInvalidOrigin, ErrEmptyOrigin, ErrWrongColor, ErrMoveCompleted,
	ErrInvalidTransition, ErrInvalidTurn, ErrInvalidPlacement, ErrTooManyCheckers,
}

var ruleErrors = []error{
	ErrMustReenter, ErrNoOpenPoint, ErrBlocked, ErrCheckersOutsideHome,
	ErrHigherPointOccupied, ErrMoveAvailable, ErrNoLegalMove, ErrTurnComplete,
}

// IsStructural reports whether err is caused by a malformed board, player,
// move or turn reference.
func IsStructural(err error) bool {
	return matchesAny(err, structuralErrors)
}

// IsRuleViolation reports whether err rejects an otherwise well-formed move
// because the rules of backgammon forbid it.
func IsRuleViolation(err error) bool {
	return matchesAny(err, ruleErrors)
}

func matchesAny(err error, targets []error) bool {
	if err == nil {
		return false
	}
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// MoveError wraps a move failure with the player, origin and die involved.
// It supports errors.Is and errors.As through Unwrap.
type MoveError struct {
	Err    error       // The underlying error
	Player Player      // Player attempting the move
	Origin ContainerID // Origin container (NoContainer if unknown)
	Die    int         // Die value (0 if unknown)
}

// Error returns the message with whatever context is available.
func (e *MoveError) Error() string {
	var parts []string
	if e.Player.Valid() {
		parts = append(parts, e.Player.String())
	}
	if e.Origin.Valid() {
		parts = append(parts, "from "+e.Origin.String())
	}
	if e.Die > 0 {
		parts = append(parts, fmt.Sprintf("die %d", e.Die))
	}

	context := strings.Join(parts, ", ")
	if context == "" {
		if e.Err == nil {
			return "move error"
		}
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error.
func (e *MoveError) Unwrap() error {
	return e.Err
}

func moveError(err error, p Player, origin ContainerID, die int) error {
	return &MoveError{Err: err, Player: p, Origin: origin, Die: die}
}
