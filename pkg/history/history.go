// Package history records the moves applied by engine turns.
package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/bgrules/pkg/engine"
)

// ErrReplayMismatch is returned by Replay when a recorded move does not lead
// from its before position to its after position.
var ErrReplayMismatch = errors.New("replay mismatch")

// Snapshot is one applied move with the boards around it.
type Snapshot struct {
	TurnID   uuid.UUID
	Seq      int // Position of the move within its turn, from 1
	Move     engine.Move
	Before   engine.Board
	After    engine.Board
	BeforeID string // Position ID of Before, mover on roll
	AfterID  string
	At       time.Time
}

// MemoryStore keeps snapshots in memory, grouped by turn. It implements
// engine.Observer and is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	limit int
	turns map[uuid.UUID][]Snapshot
	order []uuid.UUID
	now   func() time.Time
	log   *zap.Logger
}

// NewMemoryStore creates a store keeping at most limit snapshots per turn
// (0 = unlimited). A nil logger disables logging.
func NewMemoryStore(limit int, logger *zap.Logger) *MemoryStore {
	if limit < 0 {
		limit = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		limit: limit,
		turns: make(map[uuid.UUID][]Snapshot),
		now:   time.Now,
		log:   logger,
	}
}

// MoveApplied records m. The oldest snapshots of a turn are dropped once
// its limit is reached; Seq keeps counting.
func (s *MemoryStore) MoveApplied(turnID uuid.UUID, before, after engine.Board, m engine.Move) {
	beforeID, err := engine.PositionID(before, m.Player)
	if err != nil {
		s.log.Warn("position id", zap.Error(err))
	}
	afterID, err := engine.PositionID(after, m.Player)
	if err != nil {
		s.log.Warn("position id", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snaps, ok := s.turns[turnID]
	if !ok {
		s.order = append(s.order, turnID)
	}
	seq := 1
	if n := len(snaps); n > 0 {
		seq = snaps[n-1].Seq + 1
	}
	snaps = append(snaps, Snapshot{
		TurnID:   turnID,
		Seq:      seq,
		Move:     m,
		Before:   before,
		After:    after,
		BeforeID: beforeID,
		AfterID:  afterID,
		At:       s.now(),
	})
	if s.limit > 0 && len(snaps) > s.limit {
		snaps = append([]Snapshot(nil), snaps[len(snaps)-s.limit:]...)
	}
	s.turns[turnID] = snaps

	s.log.Debug("snapshot recorded",
		zap.String("turn", turnID.String()), zap.Int("seq", seq), zap.Stringer("move", m))
}

// Snapshots returns a copy of the snapshots of one turn, oldest first.
func (s *MemoryStore) Snapshots(turnID uuid.UUID) []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Snapshot(nil), s.turns[turnID]...)
}

// Turns returns the recorded turn ids in first-seen order.
func (s *MemoryStore) Turns() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]uuid.UUID(nil), s.order...)
}

// Last returns the most recent snapshot of a turn.
func (s *MemoryStore) Last(turnID uuid.UUID) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snaps := s.turns[turnID]
	if len(snaps) == 0 {
		return Snapshot{}, false
	}
	return snaps[len(snaps)-1], true
}

// Len returns the total number of snapshots held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, snaps := range s.turns {
		n += len(snaps)
	}
	return n
}

// Replay checks the recorded history of a turn: each snapshot's BeforeID is
// decoded, its move is played again and the result must match AfterID.
func (s *MemoryStore) Replay(turnID uuid.UUID) error {
	for _, snap := range s.Snapshots(turnID) {
		m := snap.Move
		b, err := engine.BoardFromPositionID(snap.BeforeID, m.Player)
		if err != nil {
			return fmt.Errorf("seq %d: %w", snap.Seq, err)
		}

		replay := engine.NewMove(m.Player, m.Origin, m.Die)
		if m.Kind == engine.KindNoMove {
			replay = engine.NoMove(m.Player, m.Die)
		}
		after, _, err := engine.Apply(b, replay)
		if err != nil {
			return fmt.Errorf("seq %d %s: %w", snap.Seq, m, err)
		}
		id, err := engine.PositionID(after, m.Player)
		if err != nil {
			return fmt.Errorf("seq %d: %w", snap.Seq, err)
		}
		if id != snap.AfterID {
			return fmt.Errorf("%w: seq %d %s gives %s, recorded %s",
				ErrReplayMismatch, snap.Seq, m, id, snap.AfterID)
		}
	}
	return nil
}

var _ engine.Observer = (*MemoryStore)(nil)
