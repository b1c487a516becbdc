package engine

import "github.com/yourusername/bgrules/internal/positionid"

// Sequence is one ordered way of playing (part of) a roll.
type Sequence []Move

// String joins the moves, e.g. "24/18 13/10".
func (s Sequence) String() string {
	out := ""
	for i, m := range s {
		if i > 0 {
			out += " "
		}
		out += m.String()
	}
	return out
}

// Plays lists the distinct legal ways to play a roll. Only sequences that
// use the most dice are kept; when that is a single die, only those moving
// the most pips are kept, so the higher die is played when either could be.
type Plays struct {
	Dice      []int      // Dice of the roll (four entries for doubles)
	MaxDice   int        // Dice used by every kept sequence
	MaxPips   int        // Pips moved by every kept sequence
	Sequences []Sequence // One sequence per distinct resulting position
}

// LegalPlays enumerates the legal sequences for player p rolling d1 and d2.
// Non-doubles are tried in both orders.
func LegalPlays(b Board, p Player, d1, d2 int) (*Plays, error) {
	if err := checkInputs(&b, p, d1); err != nil {
		return nil, err
	}
	if !validDie(d2) {
		return nil, ErrInvalidDie
	}
	return legalPlays(b, p, rollDice(d1, d2)), nil
}

// rollDice expands a roll into one die per move: four for doubles.
func rollDice(d1, d2 int) []int {
	if d1 == d2 {
		return []int{d1, d1, d1, d1}
	}
	return []int{d1, d2}
}

// diceOrders returns the orders in which dice may be played.
func diceOrders(dice []int) [][]int {
	if len(dice) == 2 && dice[0] != dice[1] {
		return [][]int{{dice[0], dice[1]}, {dice[1], dice[0]}}
	}
	return [][]int{dice}
}

type visitKey struct {
	key   positionid.PositionKey
	order int
	depth int
}

// playGen is the recursive sequence generator.
type playGen struct {
	player  Player
	plays   *Plays
	results map[positionid.PositionKey]struct{} // Positions already saved
	visited map[visitKey]struct{}               // Subtrees already walked
	path    []Move
}

func legalPlays(b Board, p Player, dice []int) *Plays {
	g := &playGen{
		player:  p,
		plays:   &Plays{Dice: append([]int(nil), dice...)},
		results: make(map[positionid.PositionKey]struct{}),
		visited: make(map[visitKey]struct{}),
	}
	for i, order := range diceOrders(dice) {
		g.walk(b, order, i, 0, 0)
	}
	return g.plays
}

func (g *playGen) walk(b Board, order []int, orderIdx, depth, pips int) {
	if depth < len(order) {
		// The same position with the same dice left always yields the
		// same plays.
		vk := visitKey{key: positionKey(&b, g.player), order: orderIdx, depth: depth}
		if _, seen := g.visited[vk]; seen {
			return
		}
		g.visited[vk] = struct{}{}

		moves, _ := PossibleMoves(b, g.player, order[depth])
		if len(moves) > 0 {
			for _, sk := range moves {
				next, m, err := Apply(b, NewMove(g.player, sk.Origin, sk.Die))
				if err != nil {
					continue
				}
				g.path = append(g.path, m)
				g.walk(next, order, orderIdx, depth+1, pips+sk.Die)
				g.path = g.path[:len(g.path)-1]
			}
			return
		}
	}
	g.save(&b, pips)
}

// save records the current path if it uses at least as many dice and pips
// as the best seen so far.
func (g *playGen) save(b *Board, pips int) {
	n := len(g.path)
	if n == 0 {
		return
	}

	pl := g.plays
	switch {
	case n < pl.MaxDice:
		return
	case n > pl.MaxDice:
		g.reset()
		pl.MaxDice, pl.MaxPips = n, pips
	case pips < pl.MaxPips:
		return
	case pips > pl.MaxPips:
		g.reset()
		pl.MaxPips = pips
	}

	key := positionKey(b, g.player)
	if _, dup := g.results[key]; dup {
		return
	}
	g.results[key] = struct{}{}
	pl.Sequences = append(pl.Sequences, append(Sequence(nil), g.path...))
}

func (g *playGen) reset() {
	g.plays.Sequences = g.plays.Sequences[:0]
	g.results = make(map[positionid.PositionKey]struct{})
}

// Advisory reports whether the dice could be used more fully than the path
// a turn is following allows.
type Advisory struct {
	MaxDice       int      // Dice the fullest legal sequence of the roll uses
	MaxPips       int      // Pips that sequence moves
	Used          int      // Dice played so far in the turn
	Reachable     int      // Dice the current path can still reach
	ReachablePips int      // Pips the current path can still reach
	FullerExists  bool     // A legal sequence uses more dice (or the higher die)
	Example       Sequence // A fullest sequence from the start of the turn
}
