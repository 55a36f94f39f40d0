package history

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/cellundo/internal/event"
	"github.com/dshills/cellundo/internal/store"
)

const eventSource = "history"

// Manager records a store's mutations and replays them on undo/redo.
//
// Every method is synchronous and none of them fail: undo and redo on an
// empty stack are no-ops. Multiple managers are fully independent.
type Manager struct {
	id     string
	mu     sync.Mutex
	stack  *stack
	bridge *bridge

	logger *zap.Logger
	bus    *event.Bus
}

// New attaches a manager to st. The store's current snapshot becomes the
// present; past and future start empty.
//
// Tracked IDs must name base cells of that snapshot. Derived and unknown
// IDs are dropped with a warning: undo cannot write the former and would
// create the latter.
func New(st Store, opts ...Option) *Manager {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Manager{
		id:  uuid.NewString(),
		bus: cfg.bus,
	}
	m.logger = cfg.logger.With(zap.String("manager", m.id))

	present := st.Snapshot()
	cfg.tracked = m.baseCells(present, cfg.tracked)
	m.stack = newStack(st, present, cfg)
	m.bridge = newBridge(st, m.record)
	return m
}

// baseCells filters ids down to the base cells of snap. A nil set stays
// nil (track everything); a non-nil set stays non-nil.
func (m *Manager) baseCells(snap *store.Snapshot, ids []store.CellID) []store.CellID {
	if ids == nil {
		return nil
	}
	kept := make([]store.CellID, 0, len(ids))
	for _, id := range ids {
		if _, ok := snap.Get(id); !ok {
			m.logger.Warn("ignoring tracked cell that is not a base cell",
				zap.String("cell", string(id)))
			continue
		}
		kept = append(kept, id)
	}
	return kept
}

// ID returns the manager's unique ID.
func (m *Manager) ID() string {
	return m.id
}

// Close detaches the manager from the store. Further mutations are not
// observed. Close is idempotent.
func (m *Manager) Close() {
	m.bridge.close()
}

// record runs once per forwarded store notification.
func (m *Manager) record(prev, next *store.Snapshot) {
	var out outcome
	change := m.locked(ChangeRecorded, func() {
		out = m.stack.record(prev, next)
	})

	m.logger.Debug("store commit observed",
		zap.Stringer("outcome", out),
		zap.Int("past", change.PastDepth),
		zap.Int("future", change.FutureDepth))

	if out == outcomeRecorded {
		m.publish(change)
	}
}

// Undo restores the most recent past snapshot. No-op when PastDepth is 0.
func (m *Manager) Undo() {
	var (
		target *store.Snapshot
		ok     bool
	)
	change := m.locked(ChangeUndone, func() {
		target, ok = m.stack.undo()
	})

	if !ok {
		m.logger.Debug("nothing to undo")
		return
	}

	m.bridge.restore(target)
	m.logger.Debug("undo",
		zap.Int("past", change.PastDepth),
		zap.Int("future", change.FutureDepth))
	m.publish(change)
}

// Redo restores the nearest future snapshot. No-op when FutureDepth is 0.
func (m *Manager) Redo() {
	var (
		target *store.Snapshot
		ok     bool
	)
	change := m.locked(ChangeRedone, func() {
		target, ok = m.stack.redo()
	})

	if !ok {
		m.logger.Debug("nothing to redo")
		return
	}

	m.bridge.restore(target)
	m.logger.Debug("redo",
		zap.Int("past", change.PastDepth),
		zap.Int("future", change.FutureDepth))
	m.publish(change)
}

// StartBatch opens a batch: the current present is pushed as one undo
// step and every mutation until EndBatch only moves present forward.
// Each call pushes a step, including nested calls.
func (m *Manager) StartBatch() {
	change := m.locked(ChangeBatchStarted, m.stack.startBatch)

	m.logger.Debug("batch started", zap.Int("past", change.PastDepth))
	m.publish(change)
}

// EndBatch closes the batch. No-op when no batch is open.
func (m *Manager) EndBatch() {
	var was bool
	change := m.locked(ChangeBatchEnded, func() {
		was = m.stack.endBatch()
	})

	if was {
		m.logger.Debug("batch ended", zap.Int("past", change.PastDepth))
		m.publish(change)
	}
}

// PauseTracking stops recording. Mutations still move present forward.
// Existing past and future entries are kept.
func (m *Manager) PauseTracking() {
	m.setTracking(false, ChangeTrackingPaused)
}

// ResumeTracking restarts recording for subsequent mutations.
func (m *Manager) ResumeTracking() {
	m.setTracking(true, ChangeTrackingResumed)
}

func (m *Manager) setTracking(enabled bool, kind ChangeKind) {
	var changed bool
	change := m.locked(kind, func() {
		changed = m.stack.setTracking(enabled)
	})

	if changed {
		m.logger.Debug("tracking toggled", zap.Bool("enabled", enabled))
		m.publish(change)
	}
}

// PastDepth returns the number of available undo steps.
func (m *Manager) PastDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack.past)
}

// FutureDepth returns the number of available redo steps.
func (m *Manager) FutureDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack.future)
}

// CanUndo reports whether Undo would do anything.
func (m *Manager) CanUndo() bool {
	return m.PastDepth() > 0
}

// CanRedo reports whether Redo would do anything.
func (m *Manager) CanRedo() bool {
	return m.FutureDepth() > 0
}

// IsBatching reports whether a batch is open.
func (m *Manager) IsBatching() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.batching
}

// IsTracking reports whether mutations are being recorded.
func (m *Manager) IsTracking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.tracking
}

// Present returns the snapshot the manager believes is current.
func (m *Manager) Present() *store.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.present
}

// History returns a copy of the stacks.
func (m *Manager) History() History {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.snapshot()
}

// locked runs fn under the lock and describes the resulting state. The
// lock is released even when fn panics, as a DeriveFunc read during
// projection may.
func (m *Manager) locked(kind ChangeKind, fn func()) Change {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
	return m.changeLocked(kind)
}

func (m *Manager) changeLocked(kind ChangeKind) Change {
	return Change{
		Kind:        kind,
		PastDepth:   len(m.stack.past),
		FutureDepth: len(m.stack.future),
		Manager:     m.id,
	}
}

// publish runs outside the lock so handlers may query the manager.
func (m *Manager) publish(change Change) {
	if m.bus == nil {
		return
	}
	err := m.bus.Publish(context.Background(), event.New(change.Kind.Topic(), change, eventSource))
	if err != nil {
		m.logger.Warn("history listener failed",
			zap.Stringer("kind", change.Kind),
			zap.Error(err))
	}
}
