package history

import "github.com/dshills/cellundo/internal/store"

// CellReader reads a cell value out of a snapshot.
type CellReader interface {
	ReadCell(snap *store.Snapshot, id store.CellID) any
}

// Store is the state store a Manager is attached to.
// *store.Store satisfies it.
type Store interface {
	CellReader

	// Snapshot returns the current state.
	Snapshot() *store.Snapshot

	// Subscribe registers fn to run synchronously, exactly once per
	// committed mutation.
	Subscribe(fn store.Listener) (unsubscribe func())

	// Restore makes snap current, notifying subscribers once.
	Restore(snap *store.Snapshot)

	// WriteCell returns a copy of snap with one cell overwritten.
	WriteCell(snap *store.Snapshot, id store.CellID, value any) *store.Snapshot
}
