package positionid

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// startingBoard is the opening position; both sides look the same from
// their own side of the table.
func startingBoard() Board {
	var board Board
	for side := 0; side < 2; side++ {
		board[side][5] = 5
		board[side][7] = 3
		board[side][12] = 5
		board[side][23] = 2
	}
	return board
}

// Known position ID for the starting position from gnubg
const startingPositionID = "4HPwATDgc/ABMA"

func TestPositionIDStartingPosition(t *testing.T) {
	if got := PositionID(startingBoard()); got != startingPositionID {
		t.Errorf("PositionID = %s, want %s", got, startingPositionID)
	}
}

func TestPositionIDRoundTrip(t *testing.T) {
	boards := map[string]Board{
		"start": startingBoard(),
		"empty": {},
	}

	bar := startingBoard()
	bar[1][12] = 4
	bar[1][BarIndex] = 1
	boards["bar"] = bar

	race := Board{}
	race[0][0], race[0][2] = 7, 3
	race[1][5], race[1][1] = 10, 5
	boards["race"] = race

	for name, board := range boards {
		t.Run(name, func(t *testing.T) {
			id := PositionID(board)
			if len(id) != PositionIDLength {
				t.Fatalf("ID %q has length %d", id, len(id))
			}
			got, err := BoardFromPositionID(id)
			if err != nil {
				t.Fatalf("BoardFromPositionID(%q) error = %v", id, err)
			}
			if diff := cmp.Diff(board, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBoardFromPositionIDWithMatchSuffix(t *testing.T) {
	got, err := BoardFromPositionID(startingPositionID + ":cIkqAAAAAAAA")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if got != startingBoard() {
		t.Errorf("decoded board = %v", got)
	}
}

func TestBoardFromPositionIDInvalid(t *testing.T) {
	for _, id := range []string{"", "4HPwATDgc", "4HPwATDgc/AB!A"} {
		if _, err := BoardFromPositionID(id); !errors.Is(err, ErrInvalidPositionID) {
			t.Errorf("BoardFromPositionID(%q) error = %v, want ErrInvalidPositionID", id, err)
		}
	}
}

func TestMakePositionKey(t *testing.T) {
	a := startingBoard()
	b := startingBoard()
	if MakePositionKey(a) != MakePositionKey(b) {
		t.Error("equal boards gave different keys")
	}

	b[1][5], b[1][4] = 4, 1
	if MakePositionKey(a) == MakePositionKey(b) {
		t.Error("different boards gave the same key")
	}

	// Swapping the sides is a different position.
	c := startingBoard()
	c[0][BarIndex] = 1
	c[0][23] = 1
	d := startingBoard()
	d[1][BarIndex] = 1
	d[1][23] = 1
	if MakePositionKey(c) == MakePositionKey(d) {
		t.Error("keys ignore which side is on roll")
	}
}

func TestCheckPosition(t *testing.T) {
	if !CheckPosition(startingBoard()) {
		t.Error("starting position should be valid")
	}

	tooMany := startingBoard()
	tooMany[0][0] = 1
	if CheckPosition(tooMany) {
		t.Error("16 checkers should be invalid")
	}

	shared := Board{}
	shared[0][0] = 1
	shared[1][23] = 1
	if CheckPosition(shared) {
		t.Error("a point held by both sides should be invalid")
	}

	closed := Board{}
	for i := 0; i < 6; i++ {
		closed[0][i] = 2
		closed[1][i] = 2
	}
	closed[0][BarIndex] = 1
	closed[1][BarIndex] = 1
	if CheckPosition(closed) {
		t.Error("both sides on the bar against closed boards should be invalid")
	}
}
