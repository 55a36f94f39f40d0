// Package store is an in-memory reactive state store made of independently
// observable cells.
//
// State is held in immutable [Snapshot] values. Every committed mutation
// replaces the current snapshot and publishes exactly one
// "store.committed" event carrying the previous and the next snapshot.
// Listeners registered with [Store.Subscribe] run synchronously, before
// the mutating call returns.
//
// # Cells
//
// Base cells are declared with [Store.Define] and hold values. Derived
// cells are declared with [Store.Derive] and compute their value from the
// base cells of whatever snapshot they are read from:
//
//	st := store.New()
//	_ = st.Define("count", int64(0))
//	_ = st.Derive("double", func(get store.Getter) any {
//	    return get("count").(int64) * 2
//	})
//
//	_ = st.Set("count", int64(2))
//	st.Get("double") // 4
//
// # Snapshots
//
// Snapshots are compared by identity. [Store.WriteCell] never modifies its
// input; it returns a new snapshot that shares every other value.
// [Store.Restore] makes a snapshot current and notifies listeners like any
// other mutation.
package store
