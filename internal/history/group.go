package history

// BatchScope closes a batch with defer.
//
//	func applyPreset(m *Manager, st *store.Store) {
//	    defer m.BatchScope().End()
//	    // ... several mutations ...
//	}
type BatchScope struct {
	manager *Manager
	active  bool
}

// BatchScope starts a batch and returns a scope that ends it.
func (m *Manager) BatchScope() *BatchScope {
	m.StartBatch()
	return &BatchScope{
		manager: m,
		active:  true,
	}
}

// End ends the batch. Only the first call has effect.
func (b *BatchScope) End() {
	if b.active {
		b.manager.EndBatch()
		b.active = false
	}
}

// Batch runs fn inside a batch. The batch is closed even if fn panics.
func (m *Manager) Batch(fn func()) {
	defer m.BatchScope().End()
	fn()
}

// Checkpoint is a point in history that can be undone back to.
type Checkpoint struct {
	pastDepth int
}

// CreateCheckpoint records the current undo depth.
func (m *Manager) CreateCheckpoint() Checkpoint {
	return Checkpoint{pastDepth: m.PastDepth()}
}

// UndoToCheckpoint undoes until the undo depth is back at cp.
func (m *Manager) UndoToCheckpoint(cp Checkpoint) {
	for m.PastDepth() > cp.pastDepth {
		m.Undo()
	}
}

// RedoToCheckpoint redoes while redo steps remain and the undo depth is
// below cp.
func (m *Manager) RedoToCheckpoint(cp Checkpoint) {
	for m.PastDepth() < cp.pastDepth && m.CanRedo() {
		m.Redo()
	}
}
