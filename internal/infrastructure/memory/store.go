// Package memory is an in-process implementation of the deal desk store. Every
// transaction holds one lock and works on a private copy of the state that
// replaces the shared state only on success, so transactions are serializable.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
)

type scoreKey struct {
	deal      uuid.UUID
	attribute uuid.UUID
}

type approvalRow struct {
	snap model.DealApprovalSnapshot
	seq  int64
}

type state struct {
	deals     map[uuid.UUID]model.DealSnapshot
	attrs     map[uuid.UUID]model.ScoringAttribute
	scores    map[scoreKey]model.DealScore
	segments  map[uuid.UUID]model.DealSegment
	approvals map[uuid.UUID]approvalRow
	threshold *model.ScoringThreshold
	notes     []model.DealNote
	outbox    []events.OutboxEntry
	seq       int64
}

func newState() *state {
	return &state{
		deals:     make(map[uuid.UUID]model.DealSnapshot),
		attrs:     make(map[uuid.UUID]model.ScoringAttribute),
		scores:    make(map[scoreKey]model.DealScore),
		segments:  make(map[uuid.UUID]model.DealSegment),
		approvals: make(map[uuid.UUID]approvalRow),
	}
}

func (s *state) clone() *state {
	c := &state{
		deals:     maps.Clone(s.deals),
		attrs:     maps.Clone(s.attrs),
		scores:    maps.Clone(s.scores),
		segments:  maps.Clone(s.segments),
		approvals: maps.Clone(s.approvals),
		notes:     slices.Clone(s.notes),
		outbox:    slices.Clone(s.outbox),
		seq:       s.seq,
	}
	if s.threshold != nil {
		th := *s.threshold
		c.threshold = &th
	}
	return c
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// runner executes fn against the state visible to a set of repositories.
type runner func(fn func(*state) error) error

// Store is the in-memory port.Store.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Repositories returns repositories whose calls each commit on their own.
func (s *Store) Repositories() port.Repositories {
	return reposFor(func(fn func(*state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.state)
	})
}

// WithinTx runs fn with exclusive access to a copy of the state and publishes
// the copy only if fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(port.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.state.clone()
	err := fn(reposFor(func(op func(*state) error) error { return op(tx) }))
	if err != nil {
		return err
	}
	s.state = tx
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func reposFor(run runner) port.Repositories {
	return port.Repositories{
		Deals:      dealRepo{run: run},
		Attributes: attributeRepo{run: run},
		Scores:     scoreRepo{run: run},
		Segments:   segmentRepo{run: run},
		Approvals:  approvalRepo{run: run},
		Thresholds: thresholdRepo{run: run},
		Notes:      noteRepo{run: run},
		Outbox:     outboxRepo{run: run},
	}
}
