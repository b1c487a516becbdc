package engine

import (
	"errors"
	"testing"
)

// hitBoard has a white checker on its 13 point and a black blot on white's
// 10 point.
func hitBoard() Board {
	return MustNewBoard([]Placement{
		PointPlacement(Clockwise, 13, White, 1),
		PointPlacement(Clockwise, 6, White, 14),
		PointPlacement(Clockwise, 10, Black, 1),
		PointPlacement(Counterclockwise, 6, Black, 14),
	})
}

func TestApplyHit(t *testing.T) {
	b := hitBoard()

	next, m, err := Apply(b, NewMove(white, PointAt(Clockwise, 13), 3))
	if err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if m.Kind != KindPointToPoint || !m.Hit || m.State != MoveCompleted {
		t.Errorf("move = %+v, want completed point-to-point hit", m)
	}
	if m.Destination != PointAt(Clockwise, 10) {
		t.Errorf("destination = %s", m.Destination)
	}
	if got := m.String(); got != "13/10*" {
		t.Errorf("String() = %q, want 13/10*", got)
	}

	if got := next.Count(BarID(Counterclockwise), Black); got != 1 {
		t.Errorf("black bar = %d, want 1", got)
	}
	if color, n := next.Occupant(PointAt(Clockwise, 10)); color != White || n != 1 {
		t.Errorf("10 point = %d %s, want 1 white", n, color)
	}
	if next.Count(PointAt(Clockwise, 13), White) != 0 {
		t.Error("13 point should be empty")
	}
	if next.Total(White) != 15 || next.Total(Black) != 15 {
		t.Errorf("totals = %d/%d, want 15/15", next.Total(White), next.Total(Black))
	}
	if got, want := next.PipCount(black), b.PipCount(black)+10; got != want {
		t.Errorf("black pips = %d, want %d", got, want)
	}
	if b.Count(BarID(Counterclockwise), Black) != 0 {
		t.Error("input board was modified")
	}

	bar, _ := next.Container(BarID(Counterclockwise))
	if bar.Checkers[0].Container != BarID(Counterclockwise) {
		t.Error("hit checker back-reference not updated")
	}
}

func TestApplyReenterAndBearOff(t *testing.T) {
	b := MustNewBoard([]Placement{
		BarPlacement(Counterclockwise, Black, 1),
		PointPlacement(Counterclockwise, 2, Black, 14),
		PointPlacement(Clockwise, 3, White, 15),
	})

	next, m, err := Apply(b, NewMove(black, BarID(Counterclockwise), 4))
	if err != nil {
		t.Fatalf("reenter error = %v", err)
	}
	if m.Kind != KindReenter || m.String() != "bar/21" {
		t.Errorf("reenter = %s %q", m.Kind, m)
	}
	if next.Count(PointAt(Counterclockwise, 21), Black) != 1 {
		t.Error("checker did not enter on 21")
	}

	next, m, err = Apply(b, NewMove(white, PointAt(Clockwise, 3), 5))
	if err != nil {
		t.Fatalf("bear-off error = %v", err)
	}
	if m.Kind != KindBearOff || m.String() != "3/off" {
		t.Errorf("bear-off = %s %q", m.Kind, m)
	}
	if got := next.Count(OffID(Clockwise), White); got != 1 {
		t.Errorf("off = %d, want 1", got)
	}
}

func TestApplyNoMove(t *testing.T) {
	b := MustNewBoard(nil)
	if _, _, err := Apply(b, NoMove(white, 6)); !errors.Is(err, ErrMoveAvailable) {
		t.Errorf("no-move with a legal 6: error = %v, want ErrMoveAvailable", err)
	}

	// Black holds points 19-24 clockwise; white is on the bar.
	var placements []Placement
	for pos := 19; pos <= 24; pos++ {
		placements = append(placements, PointPlacement(Clockwise, pos, Black, 2))
	}
	placements = append(placements, BarPlacement(Clockwise, White, 1))
	closed := MustNewBoard(placements)

	next, m, err := Apply(closed, NoMove(white, 6))
	if err != nil {
		t.Fatalf("Apply(no-move) error = %v", err)
	}
	if next != closed {
		t.Error("no-move changed the board")
	}
	if m.Kind != KindNoMove || m.State != MoveCompleted || m.String() != "no-move(6)" {
		t.Errorf("move = %+v", m)
	}
}

func TestApplyErrors(t *testing.T) {
	b := hitBoard()

	_, m, err := Apply(b, NewMove(white, PointAt(Clockwise, 13), 3))
	if err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if _, _, err := Apply(b, m); !errors.Is(err, ErrMoveCompleted) {
		t.Errorf("re-applying a completed move: error = %v, want ErrMoveCompleted", err)
	}

	_, _, err = Apply(b, NewMove(white, PointAt(Clockwise, 6), 6))
	if !errors.Is(err, ErrCheckersOutsideHome) || !IsRuleViolation(err) {
		t.Errorf("bear-off with 13 point occupied: error = %v", err)
	}
	var me *MoveError
	if !errors.As(err, &me) || me.Die != 6 || me.Origin != PointAt(Clockwise, 6) {
		t.Errorf("error %v carries no move context", err)
	}

	if _, _, err := Apply(Board{}, NewMove(white, 0, 1)); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("zero board: error = %v, want ErrInvalidBoard", err)
	}
}

func TestClassify(t *testing.T) {
	b := hitBoard()
	tests := []struct {
		name   string
		origin ContainerID
		player Player
		die    int
		want   MoveKind
		err    error
	}{
		{"point to point", PointAt(Clockwise, 13), white, 3, KindPointToPoint, nil},
		{"outside home", PointAt(Clockwise, 6), white, 6, KindNoMove, nil},
		{"black blot", PointAt(Counterclockwise, 15), black, 2, KindPointToPoint, nil},
		{"black hits white's 13", PointAt(Counterclockwise, 15), black, 3, KindPointToPoint, nil},
		{"empty origin", PointAt(Clockwise, 20), white, 3, KindUnresolved, ErrEmptyOrigin},
		{"wrong color", PointAt(Clockwise, 10), white, 3, KindUnresolved, ErrWrongColor},
		{"off tray", OffID(Clockwise), white, 3, KindUnresolved, ErrInvalidOrigin},
		{"bad die", PointAt(Clockwise, 13), white, 9, KindUnresolved, ErrInvalidDie},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(b, tt.origin, tt.player, tt.die)
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}
			if got != tt.want {
				t.Errorf("kind = %s, want %s", got, tt.want)
			}
		})
	}

	// 24/19 runs into black's 6 point.
	got, err := Classify(MustNewBoard(nil), PointAt(Clockwise, 24), white, 5)
	if err != nil || got != KindNoMove {
		t.Errorf("blocked: kind = %s, error = %v, want no-move", got, err)
	}
}

func TestPreview(t *testing.T) {
	b := hitBoard()
	m, err := Preview(b, NewMove(white, PointAt(Clockwise, 13), 3))
	if err != nil {
		t.Fatalf("Preview error = %v", err)
	}
	if m.State != MoveReady || m.Kind != KindPointToPoint || !m.Hit || m.Destination != PointAt(Clockwise, 10) {
		t.Errorf("preview = %+v", m)
	}
	if b != hitBoard() {
		t.Error("Preview modified the board")
	}
}

func TestMoveTransitions(t *testing.T) {
	m := NewMove(white, PointAt(Clockwise, 13), 3)

	if _, err := m.transition(MoveCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ready -> completed: error = %v, want ErrInvalidTransition", err)
	}
	if _, err := m.transition(MoveConfirmed); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ready -> confirmed: error = %v", err)
	}

	steps := []MoveState{MoveInProgress, MoveCompleted, MoveConfirmed}
	for _, to := range steps {
		var err error
		if m, err = m.transition(to); err != nil {
			t.Fatalf("-> %s: error = %v", to, err)
		}
	}
	if _, err := m.transition(MoveCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("confirmed -> completed: error = %v", err)
	}

	nm := NoMove(white, 4)
	if nm, err := nm.transition(MoveCompleted); err != nil || !nm.Completed() {
		t.Errorf("no-move ready -> completed: %v", err)
	}
}

// changed returns, for color c, the containers that lost and gained
// checkers between before and after, with the size of each change.
func changed(before, after Board, c Color) (lost, gained map[ContainerID]int) {
	lost, gained = map[ContainerID]int{}, map[ContainerID]int{}
	for id := ContainerID(0); id < NumContainers; id++ {
		d := after.Count(id, c) - before.Count(id, c)
		switch {
		case d < 0:
			lost[id] = -d
		case d > 0:
			gained[id] = d
		}
	}
	return lost, gained
}

func TestApplyConservesCheckersForEveryRoll(t *testing.T) {
	boards := map[string]Board{"start": MustNewBoard(nil), "hit": hitBoard()}
	for name, start := range boards {
		for d1 := 1; d1 <= 6; d1++ {
			for d2 := d1; d2 <= 6; d2++ {
				plays, err := LegalPlays(start, white, d1, d2)
				if err != nil {
					t.Fatalf("%s %d-%d: %v", name, d1, d2, err)
				}
				for _, seq := range plays.Sequences {
					b := start
					for _, sm := range seq {
						next, m, err := Apply(b, NewMove(white, sm.Origin, sm.Die))
						if err != nil {
							t.Fatalf("%s %d-%d %s: Apply(%s) error = %v", name, d1, d2, seq, sm, err)
						}
						if next.Total(White) != b.Total(White) || next.Total(Black) != b.Total(Black) {
							t.Fatalf("%s %d-%d %s: %s changed the totals", name, d1, d2, seq, m)
						}

						lost, gained := changed(b, next, White)
						if len(lost) != 1 || len(gained) != 1 || lost[m.Origin] != 1 || gained[m.Destination] != 1 {
							t.Fatalf("%s %d-%d %s: %s moved white %v -> %v", name, d1, d2, seq, m, lost, gained)
						}
						lost, gained = changed(b, next, Black)
						switch {
						case m.Hit:
							if len(lost) != 1 || lost[m.Destination] != 1 || len(gained) != 1 || gained[BarID(Counterclockwise)] != 1 {
								t.Fatalf("%s %d-%d %s: hit %s moved black %v -> %v", name, d1, d2, seq, m, lost, gained)
							}
						case len(lost) != 0 || len(gained) != 0:
							t.Fatalf("%s %d-%d %s: %s moved black %v -> %v", name, d1, d2, seq, m, lost, gained)
						}
						b = next
					}
				}
			}
		}
	}
}
