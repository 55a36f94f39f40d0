package history

import (
	"github.com/dshills/cellundo/internal/store"
)

// Projection maps tracked cells to their values in one snapshot.
type Projection map[store.CellID]any

// Project reads every cell in ids from snap.
func Project(r CellReader, snap *store.Snapshot, ids []store.CellID) Projection {
	p := make(Projection, len(ids))
	for _, id := range ids {
		p[id] = r.ReadCell(snap, id)
	}
	return p
}

// Changed reports whether two projections differ in their key sets or in
// any value. Values are compared with store.Equal: by value for comparable
// types, by identity for slices, maps and funcs.
func Changed(prev, curr Projection) bool {
	if len(prev) != len(curr) {
		return true
	}
	for id, pv := range prev {
		cv, ok := curr[id]
		if !ok {
			return true
		}
		if !store.Equal(pv, cv) {
			return true
		}
	}
	return false
}
