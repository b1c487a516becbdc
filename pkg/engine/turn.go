package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TurnState is the lifecycle of a turn.
type TurnState int8

const (
	TurnRolled TurnState = iota // Dice rolled, nothing played yet
	TurnMoving                  // At least one move applied, slots pending
	TurnMoved                   // Every slot completed
	TurnConfirmed               // Moves committed by Confirm
)

// String returns the state name.
func (s TurnState) String() string {
	switch s {
	case TurnRolled:
		return "rolled"
	case TurnMoving:
		return "moving"
	case TurnMoved:
		return "moved"
	case TurnConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Observer is notified of every checker move a turn applies.
type Observer interface {
	MoveApplied(turnID uuid.UUID, before, after Board, m Move)
}

// TurnOptions configures a turn
type TurnOptions struct {
	ID       uuid.UUID   // Turn id (zero = random)
	Logger   *zap.Logger // Debug logging (nil = no-op)
	Observer Observer    // Receives applied moves (optional)
	Cache    *PlaysCache // Shared lookahead cache (optional)
}

// Slot is one die owed by the turn.
type Slot struct {
	Index    int
	Move     Move
	Possible []Skeleton // Legal uses against the current board; nil once completed
}

// Pending reports whether the slot still needs a move.
func (s Slot) Pending() bool {
	return !s.Move.Completed()
}

func (s Slot) copy() Slot {
	if s.Possible != nil {
		s.Possible = append([]Skeleton(nil), s.Possible...)
	}
	return s
}

// Turn sequences the dice of one roll. A Turn is never modified: every
// operation returns a new Turn and leaves the receiver as it was.
type Turn struct {
	id     uuid.UUID
	player Player
	dice   [2]int
	state  TurnState
	start  Board
	board  Board
	slots  []Slot
	played []Move // Completed moves in the order they happened
	log    *zap.Logger
	obs    Observer
	cache  *PlaysCache
}

// NewTurn starts a turn for p on b with the dice d1 and d2. A double owes
// four moves, anything else two. Every slot's legal moves are computed
// at once; when no slot has any, every slot is retired as a no-move and
// the turn is already moved.
func NewTurn(b Board, p Player, d1, d2 int, opts TurnOptions) (*Turn, error) {
	if err := checkInputs(&b, p, d1); err != nil {
		return nil, err
	}
	if !validDie(d2) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDie, d2)
	}

	t := &Turn{
		id:     opts.ID,
		player: p,
		dice:   [2]int{d1, d2},
		start:  b,
		board:  b,
		obs:    opts.Observer,
		cache:  opts.Cache,
	}
	if t.id == uuid.Nil {
		t.id = uuid.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	t.log = logger.With(zap.String("turn", t.id.String()), zap.Stringer("player", p))

	for i, die := range rollDice(d1, d2) {
		t.slots = append(t.slots, Slot{Index: i, Move: NewMove(p, NoContainer, die)})
	}
	if err := t.recompute(); err != nil {
		return nil, err
	}

	// A die that is dead now may come alive once another die is played
	// (entering from the bar, for one), so only a fully dead roll is
	// retired here. recompute after each move handles the rest.
	live := false
	for _, s := range t.slots {
		if len(s.Possible) > 0 {
			live = true
			break
		}
	}
	if !live {
		if err := t.retireDead(); err != nil {
			return nil, err
		}
	}

	t.state = t.settle(TurnRolled)
	t.log.Debug("turn rolled",
		zap.Int("die1", d1), zap.Int("die2", d2),
		zap.Int("slots", len(t.slots)), zap.Stringer("state", t.state))
	return t, nil
}

// ID returns the turn's id.
func (t *Turn) ID() uuid.UUID { return t.id }

// Player returns the player on roll.
func (t *Turn) Player() Player { return t.player }

// Dice returns the roll.
func (t *Turn) Dice() [2]int { return t.dice }

// State returns the turn state.
func (t *Turn) State() TurnState { return t.state }

// Board returns the current board.
func (t *Turn) Board() Board { return t.board }

// Start returns the board the turn started from.
func (t *Turn) Start() Board { return t.start }

// Slots returns a copy of every slot.
func (t *Turn) Slots() []Slot {
	out := make([]Slot, len(t.slots))
	for i, s := range t.slots {
		out[i] = s.copy()
	}
	return out
}

// Pending returns the slots still waiting for a move.
func (t *Turn) Pending() []Slot {
	var out []Slot
	for _, s := range t.slots {
		if s.Pending() {
			out = append(out, s.copy())
		}
	}
	return out
}

// Moves returns the completed moves, including retired no-moves, in the
// order they happened.
func (t *Turn) Moves() []Move {
	return append([]Move(nil), t.played...)
}

// Move plays one checker from origin with whichever pending die can move
// it. When more than one die could, the die that keeps the fullest use of
// the roll reachable wins, then the order of the roll.
func (t *Turn) Move(origin ContainerID) (*Turn, Move, error) {
	return t.move(origin, 0)
}

// MoveDie plays one checker from origin with a specific die.
func (t *Turn) MoveDie(origin ContainerID, die int) (*Turn, Move, error) {
	if !validDie(die) {
		return t, Move{}, moveError(fmt.Errorf("%w: %d", ErrInvalidDie, die), t.playerOrZero(), origin, die)
	}
	return t.move(origin, die)
}

func (t *Turn) playerOrZero() Player {
	if t == nil {
		return Player{}
	}
	return t.player
}

func (t *Turn) move(origin ContainerID, die int) (*Turn, Move, error) {
	if t == nil {
		return nil, Move{}, ErrInvalidTurn
	}
	switch t.state {
	case TurnRolled, TurnMoving:
	case TurnMoved, TurnConfirmed:
		return t, Move{}, moveError(ErrTurnComplete, t.player, origin, die)
	default:
		return t, Move{}, fmt.Errorf("%w: turn state %d", ErrInvalidTransition, t.state)
	}

	bar := BarID(t.player.Direction)
	if origin != bar && t.board.Count(bar, t.player.Color) > 0 {
		return t, Move{}, moveError(ErrMustReenter, t.player, origin, die)
	}

	candidates := t.candidates(origin, die)
	if len(candidates) == 0 {
		return t, Move{}, t.rejection(origin, die)
	}
	idx := t.choose(origin, candidates)

	next, m, err := Apply(t.board, NewMove(t.player, origin, t.slots[idx].Move.Die))
	if err != nil {
		return t, Move{}, err
	}

	nt := t.clone()
	nt.board = next
	nt.slots[idx].Move = m
	nt.slots[idx].Possible = nil
	nt.played = append(nt.played, m)

	// Every pending slot is derived again from the new board; a bear-off
	// or an entry can open or close moves for the other dice.
	if err := nt.recompute(); err != nil {
		return t, Move{}, err
	}
	if err := nt.retireDead(); err != nil {
		return t, Move{}, err
	}
	nt.state = nt.settle(TurnMoving)

	nt.log.Debug("move applied",
		zap.Stringer("move", m), zap.Int("slot", idx), zap.Stringer("state", nt.state))
	if nt.obs != nil {
		nt.obs.MoveApplied(nt.id, t.board, next, m)
	}
	return nt, m, nil
}

// candidates returns the pending slots that can move a checker from origin,
// restricted to die when die is not zero.
func (t *Turn) candidates(origin ContainerID, die int) []int {
	var out []int
	for i, s := range t.slots {
		if !s.Pending() || (die != 0 && s.Move.Die != die) {
			continue
		}
		for _, sk := range s.Possible {
			if sk.Origin == origin {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// choose picks among candidate slots for origin. Slots sharing a die are
// interchangeable, so only distinct dice are weighed.
func (t *Turn) choose(origin ContainerID, candidates []int) int {
	best := candidates[0]
	if len(candidates) == 1 {
		return best
	}
	bestDice, bestPips := -1, -1
	seen := make(map[int]bool)
	for _, idx := range candidates {
		die := t.slots[idx].Move.Die
		if seen[die] {
			continue
		}
		seen[die] = true

		next, _, err := Apply(t.board, NewMove(t.player, origin, die))
		if err != nil {
			continue
		}
		restDice, restPips := reach(t.cache, next, t.player, t.pendingDiceExcept(idx))
		dice, pips := 1+restDice, die+restPips
		if dice > bestDice || (dice == bestDice && pips > bestPips) {
			best, bestDice, bestPips = idx, dice, pips
		}
	}
	return best
}

// rejection explains why origin cannot be played, using the rule the board
// actually violates for the first pending die. A closed entry point is
// reported as no legal move.
func (t *Turn) rejection(origin ContainerID, die int) error {
	tried := false
	for _, s := range t.slots {
		if !s.Pending() || (die != 0 && s.Move.Die != die) {
			continue
		}
		tried = true
		if _, _, err := Apply(t.board, NewMove(t.player, origin, s.Move.Die)); err != nil {
			if errors.Is(err, ErrNoOpenPoint) {
				return fmt.Errorf("%w: %w", ErrNoLegalMove, err)
			}
			return err
		}
	}
	if !tried && die != 0 {
		return moveError(fmt.Errorf("%w: %d is not pending in this roll", ErrInvalidDie, die), t.player, origin, die)
	}
	return moveError(ErrNoLegalMove, t.player, origin, die)
}

// Confirm commits a moved turn: every move becomes confirmed and the turn
// is confirmed.
func (t *Turn) Confirm() (*Turn, error) {
	if t == nil {
		return nil, ErrInvalidTurn
	}
	if t.state != TurnMoved {
		return t, fmt.Errorf("%w: turn is %s", ErrInvalidTransition, t.state)
	}
	nt := t.clone()
	for i := range nt.slots {
		m, err := nt.slots[i].Move.transition(MoveConfirmed)
		if err != nil {
			return t, err
		}
		nt.slots[i].Move = m
	}
	for i := range nt.played {
		nt.played[i].State = MoveConfirmed
	}
	nt.state = TurnConfirmed
	return nt, nil
}

// Advise compares the path the turn is following with the fullest legal
// sequence of the roll.
func (t *Turn) Advise() Advisory {
	if t == nil {
		return Advisory{}
	}
	start := legalPlays(t.start, t.player, rollDice(t.dice[0], t.dice[1]))

	used, usedPips := 0, 0
	for _, m := range t.played {
		if m.Kind != KindNoMove {
			used++
			usedPips += m.Die
		}
	}
	restDice, restPips := reach(t.cache, t.board, t.player, t.pendingDiceExcept(-1))

	a := Advisory{
		MaxDice:       start.MaxDice,
		MaxPips:       start.MaxPips,
		Used:          used,
		Reachable:     used + restDice,
		ReachablePips: usedPips + restPips,
	}
	a.FullerExists = a.MaxDice > a.Reachable ||
		(a.MaxDice == a.Reachable && a.MaxPips > a.ReachablePips)
	if len(start.Sequences) > 0 {
		a.Example = start.Sequences[0]
	}
	return a
}

// pendingDiceExcept returns the dice of pending slots other than skip.
func (t *Turn) pendingDiceExcept(skip int) []int {
	var dice []int
	for i, s := range t.slots {
		if i != skip && s.Pending() {
			dice = append(dice, s.Move.Die)
		}
	}
	return dice
}

// recompute derives every pending slot's legal moves from the current board.
func (t *Turn) recompute() error {
	for i := range t.slots {
		if !t.slots[i].Pending() {
			continue
		}
		moves, err := PossibleMoves(t.board, t.player, t.slots[i].Move.Die)
		if err != nil {
			return err
		}
		t.slots[i].Possible = moves
	}
	return nil
}

// retireDead completes every pending slot without a legal move as a no-move.
func (t *Turn) retireDead() error {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.Pending() || len(s.Possible) > 0 {
			continue
		}
		_, m, err := Apply(t.board, NoMove(t.player, s.Move.Die))
		if err != nil {
			return err
		}
		s.Move = m
		s.Possible = nil
		t.played = append(t.played, m)
		t.log.Debug("slot retired", zap.Int("slot", i), zap.Int("die", m.Die))
	}
	return nil
}

// settle returns TurnMoved once every slot is completed, from otherwise.
func (t *Turn) settle(from TurnState) TurnState {
	for _, s := range t.slots {
		if s.Pending() {
			return from
		}
	}
	return TurnMoved
}

func (t *Turn) clone() *Turn {
	nt := *t
	nt.slots = append([]Slot(nil), t.slots...)
	nt.played = append([]Move(nil), t.played...)
	return &nt
}
