package history

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yourusername/bgrules/pkg/engine"
)

func white() engine.Player {
	w, _ := engine.DefaultPlayers()
	return w
}

func TestStoreRecordsTurn(t *testing.T) {
	store := NewMemoryStore(0, nil)
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	id := uuid.New()
	start := engine.MustNewBoard(nil)
	turn, err := engine.NewTurn(start, white(), 6, 5, engine.TurnOptions{ID: id, Observer: store})
	if err != nil {
		t.Fatalf("NewTurn error = %v", err)
	}
	turn, _, err = turn.Move(engine.PointAt(engine.Clockwise, 24))
	if err != nil {
		t.Fatalf("Move error = %v", err)
	}
	turn, _, err = turn.Move(engine.PointAt(engine.Clockwise, 18))
	if err != nil {
		t.Fatalf("Move error = %v", err)
	}

	snaps := store.Snapshots(id)
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(snaps))
	}
	if snaps[0].Before != start || snaps[0].After != snaps[1].Before || snaps[1].After != turn.Board() {
		t.Error("snapshot boards do not chain from start to the final board")
	}
	if snaps[0].BeforeID != "4HPwATDgc/ABMA" {
		t.Errorf("BeforeID = %s", snaps[0].BeforeID)
	}
	if snaps[0].AfterID == snaps[0].BeforeID {
		t.Error("AfterID should differ from BeforeID")
	}

	got := []int{snaps[0].Seq, snaps[1].Seq}
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("seq mismatch (-want +got):\n%s", diff)
	}
	if snaps[1].Move.String() != "18/13" || !snaps[1].At.Equal(fixed) || snaps[1].TurnID != id {
		t.Errorf("snapshot = %+v", snaps[1])
	}

	if diff := cmp.Diff([]uuid.UUID{id}, store.Turns()); diff != "" {
		t.Errorf("turns mismatch (-want +got):\n%s", diff)
	}
	if last, ok := store.Last(id); !ok || last.Seq != 2 {
		t.Errorf("Last = %d, %v", last.Seq, ok)
	}
	if _, ok := store.Last(uuid.New()); ok {
		t.Error("Last for an unknown turn should report false")
	}
}

func TestStoreLimit(t *testing.T) {
	store := NewMemoryStore(2, nil)
	id := uuid.New()
	b := engine.MustNewBoard(nil)
	m := engine.NewMove(white(), engine.PointAt(engine.Clockwise, 13), 1)

	for i := 0; i < 5; i++ {
		store.MoveApplied(id, b, b, m)
	}
	snaps := store.Snapshots(id)
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(snaps))
	}
	if snaps[0].Seq != 4 || snaps[1].Seq != 5 {
		t.Errorf("kept seq %d and %d, want 4 and 5", snaps[0].Seq, snaps[1].Seq)
	}
	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}
}

func TestStoreSnapshotsAreCopies(t *testing.T) {
	store := NewMemoryStore(0, nil)
	id := uuid.New()
	b := engine.MustNewBoard(nil)
	store.MoveApplied(id, b, b, engine.NoMove(white(), 3))

	snaps := store.Snapshots(id)
	snaps[0].Seq = 99
	if store.Snapshots(id)[0].Seq != 1 {
		t.Error("Snapshots exposes internal state")
	}
	if store.Snapshots(uuid.New()) != nil {
		t.Error("unknown turn should have no snapshots")
	}
}

func TestStoreConcurrent(t *testing.T) {
	store := NewMemoryStore(0, nil)
	b := engine.MustNewBoard(nil)
	m := engine.NoMove(white(), 2)

	ids := make([]uuid.UUID, 8)
	for i := range ids {
		ids[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				store.MoveApplied(id, b, b, m)
				store.Snapshots(id)
			}
		}(id)
	}
	wg.Wait()

	if store.Len() != 80 {
		t.Errorf("Len = %d, want 80", store.Len())
	}
	if len(store.Turns()) != len(ids) {
		t.Errorf("Turns = %d, want %d", len(store.Turns()), len(ids))
	}
}

func TestStoreLogsInvalidBoards(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	store := NewMemoryStore(0, zap.New(core))

	store.MoveApplied(uuid.New(), engine.Board{}, engine.Board{}, engine.NoMove(white(), 1))

	if n := logs.FilterMessage("position id").Len(); n != 2 {
		t.Errorf("position id warnings = %d, want 2", n)
	}
	if n := logs.FilterMessage("snapshot recorded").Len(); n != 1 {
		t.Errorf("snapshot recorded = %d, want 1", n)
	}
}

func TestStoreReplay(t *testing.T) {
	store := NewMemoryStore(0, nil)
	id := uuid.New()

	// 13/10* 10/7 7/4 3/off: a hit, then a bear-off once every checker is home.
	b := engine.MustNewBoard([]engine.Placement{
		engine.PointPlacement(engine.Clockwise, 13, engine.White, 1),
		engine.PointPlacement(engine.Clockwise, 3, engine.White, 14),
		engine.PointPlacement(engine.Clockwise, 10, engine.Black, 1),
		engine.PointPlacement(engine.Counterclockwise, 6, engine.Black, 14),
	})
	turn, err := engine.NewTurn(b, white(), 3, 3, engine.TurnOptions{ID: id, Observer: store})
	if err != nil {
		t.Fatalf("NewTurn error = %v", err)
	}
	for _, pos := range []int{13, 10, 7, 3} {
		if turn, _, err = turn.Move(engine.PointAt(engine.Clockwise, pos)); err != nil {
			t.Fatalf("Move(%d) error = %v", pos, err)
		}
	}
	if err := store.Replay(id); err != nil {
		t.Errorf("Replay error = %v", err)
	}
	if err := store.Replay(uuid.New()); err != nil {
		t.Errorf("Replay of an unknown turn = %v, want nil", err)
	}

	store.mu.Lock()
	store.turns[id][1].AfterID = store.turns[id][0].BeforeID
	store.mu.Unlock()
	if err := store.Replay(id); !errors.Is(err, ErrReplayMismatch) {
		t.Errorf("tampered Replay error = %v, want ErrReplayMismatch", err)
	}

	store.mu.Lock()
	store.turns[id][0].BeforeID = "garbage"
	store.mu.Unlock()
	if err := store.Replay(id); !errors.Is(err, engine.ErrInvalidBoard) {
		t.Errorf("undecodable Replay error = %v, want ErrInvalidBoard", err)
	}
}
