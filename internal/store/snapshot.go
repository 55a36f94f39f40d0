package store

import (
	"maps"
	"slices"
	"sync/atomic"
)

// CellID identifies a cell within a store.
type CellID string

// SnapshotID uniquely identifies a snapshot within the process.
type SnapshotID uint64

var snapshotIDCounter atomic.Uint64

func nextSnapshotID() SnapshotID {
	return SnapshotID(snapshotIDCounter.Add(1))
}

// Snapshot is an immutable point-in-time view of every base cell.
// Snapshots can be shared freely across goroutines.
type Snapshot struct {
	id     SnapshotID
	values map[CellID]any
}

func newSnapshot(values map[CellID]any) *Snapshot {
	return &Snapshot{
		id:     nextSnapshotID(),
		values: values,
	}
}

// ID returns the snapshot's unique identifier.
func (s *Snapshot) ID() SnapshotID {
	return s.id
}

// Get returns the value of a base cell.
func (s *Snapshot) Get(id CellID) (any, bool) {
	v, ok := s.values[id]
	return v, ok
}

// Len returns the number of base cells.
func (s *Snapshot) Len() int {
	return len(s.values)
}

// Cells returns the base cell IDs in sorted order.
func (s *Snapshot) Cells() []CellID {
	return slices.Sorted(maps.Keys(s.values))
}

// Values returns a copy of the base cell values.
func (s *Snapshot) Values() map[CellID]any {
	return maps.Clone(s.values)
}

// with returns a copy of s with one value replaced.
func (s *Snapshot) with(id CellID, value any) *Snapshot {
	values := make(map[CellID]any, len(s.values)+1)
	maps.Copy(values, s.values)
	values[id] = value
	return newSnapshot(values)
}
