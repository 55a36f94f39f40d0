package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/cellundo/internal/event"
	"github.com/dshills/cellundo/internal/event/topic"
)

// TopicCommitted is published once per committed mutation.
const TopicCommitted topic.Topic = "store.committed"

const eventSource = "store"

// Commit is the payload of a TopicCommitted event.
type Commit struct {
	Prev *Snapshot
	Next *Snapshot
}

// Listener receives the snapshot pair of one committed mutation.
type Listener func(prev, next *Snapshot)

// Getter reads a base cell while computing a derived cell.
type Getter func(id CellID) any

// DeriveFunc computes a derived cell value.
type DeriveFunc func(get Getter) any

// Store holds the current snapshot and the derived cell definitions.
// It is safe for concurrent use, but notifications are delivered
// synchronously in the goroutine that committed the mutation.
type Store struct {
	mu      sync.Mutex
	current *Snapshot
	initial map[CellID]any
	derived map[CellID]DeriveFunc

	bus    *event.Bus
	logger *zap.Logger
}

// New creates a store.
func New(opts ...Option) *Store {
	s := &Store{
		initial: make(map[CellID]any),
		derived: make(map[CellID]DeriveFunc),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = event.NewBus(event.WithLogger(s.logger))
	}
	s.current = newSnapshot(s.initial)
	s.initial = nil
	return s
}

// Bus returns the bus commits are published on.
func (s *Store) Bus() *event.Bus {
	return s.bus
}

// Define declares a base cell. Defining a cell is schema setup, not a
// mutation: it replaces the current snapshot without notifying listeners,
// so cells should be defined before anything subscribes.
func (s *Store) Define(id CellID, initial any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.current.values[id]; ok {
		return fmt.Errorf("%w: %s", ErrCellExists, id)
	}
	if _, ok := s.derived[id]; ok {
		return fmt.Errorf("%w: %s", ErrCellExists, id)
	}
	s.current = s.current.with(id, initial)
	return nil
}

// Derive declares a read-only cell computed from base cells.
func (s *Store) Derive(id CellID, fn DeriveFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.current.values[id]; ok {
		return fmt.Errorf("%w: %s", ErrCellExists, id)
	}
	if _, ok := s.derived[id]; ok {
		return fmt.Errorf("%w: %s", ErrCellExists, id)
	}
	s.derived[id] = fn
	return nil
}

// Cells returns the base and derived cell IDs in sorted order.
func (s *Store) Cells() []CellID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.current.Cells()
	ids = append(ids, slices.Collect(maps.Keys(s.derived))...)
	slices.Sort(ids)
	return ids
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Get reads a cell from the current snapshot.
func (s *Store) Get(id CellID) any {
	return s.ReadCell(s.Snapshot(), id)
}

// Set commits a new value for a base cell. Setting a value equal to the
// current one still commits and notifies.
func (s *Store) Set(id CellID, value any) error {
	return s.Update(id, func(any) any { return value })
}

// Update commits fn applied to the current value of a base cell.
func (s *Store) Update(id CellID, fn func(old any) any) error {
	s.mu.Lock()
	if _, ok := s.derived[id]; ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDerivedCell, id)
	}
	old, ok := s.current.values[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownCell, id)
	}
	prev := s.current
	next := prev.with(id, fn(old))
	s.current = next
	s.mu.Unlock()

	s.notify(prev, next)
	return nil
}

// Restore makes snap the current state and notifies listeners with the
// state it replaced. Restoring a nil snapshot is a programming error.
func (s *Store) Restore(snap *Snapshot) {
	if snap == nil {
		panic("store: restore of nil snapshot")
	}

	s.mu.Lock()
	prev := s.current
	s.current = snap
	s.mu.Unlock()

	s.notify(prev, snap)
}

// ReadCell reads a cell from snap. Derived cells are computed against snap.
// Unknown cells read as nil.
func (s *Store) ReadCell(snap *Snapshot, id CellID) any {
	if v, ok := snap.values[id]; ok {
		return v
	}

	s.mu.Lock()
	fn, ok := s.derived[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return fn(func(dep CellID) any {
		return s.ReadCell(snap, dep)
	})
}

// WriteCell returns a copy of snap with one base cell overwritten. Derived
// cells cannot be written; snap is returned unchanged for them.
func (s *Store) WriteCell(snap *Snapshot, id CellID, value any) *Snapshot {
	s.mu.Lock()
	_, derived := s.derived[id]
	s.mu.Unlock()
	if derived {
		return snap
	}
	return snap.with(id, value)
}

// Subscribe registers fn for every committed mutation and returns a
// function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		panic("store: nil listener")
	}
	sub, err := s.bus.SubscribeFunc(TopicCommitted, func(ctx context.Context, ev event.Event) error {
		c, ok := ev.Payload.(Commit)
		if !ok {
			return nil
		}
		fn(c.Prev, c.Next)
		return nil
	}, event.WithPriority(event.PriorityCritical), event.WithFilter(s.ownCommit))
	if err != nil {
		panic(fmt.Sprintf("store: subscribe: %v", err))
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = s.bus.Unsubscribe(sub)
		})
	}
}

// ownCommit filters out commits published by other stores sharing the bus.
func (s *Store) ownCommit(ev event.Event) bool {
	return ev.Metadata.Source == s.source()
}

func (s *Store) source() string {
	return fmt.Sprintf("%s/%p", eventSource, s)
}

func (s *Store) notify(prev, next *Snapshot) {
	err := s.bus.Publish(context.Background(), event.New(TopicCommitted, Commit{Prev: prev, Next: next}, s.source()))
	if err != nil {
		s.logger.Warn("commit listener failed",
			zap.Uint64("snapshot", uint64(next.id)),
			zap.Error(err))
	}
}
