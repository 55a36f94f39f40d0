// Package history provides undo/redo for a reactive state store.
//
// A Manager observes every mutation committed to a [Store], decides whether
// the mutation is worth an undo step, and replays recorded snapshots on
// demand. It never owns cell values; it only keeps references to the
// immutable snapshots the store hands out.
//
// # History
//
// The manager's state is three pieces:
//
//   - past: snapshots that can be undone to, oldest first
//   - present: the snapshot believed to be the store's current state
//   - future: snapshots that can be redone to, nearest first
//
// Recording a new change pushes the previous snapshot onto past and clears
// future, giving standard linear undo.
//
//	st := store.New(store.WithCells(map[store.CellID]any{"count": int64(0)}))
//	m := history.New(st)
//	defer m.Close()
//
//	_ = st.Set("count", int64(1))
//	m.Undo() // count is 0 again
//	m.Redo() // count is 1 again
//
// # Tracked Cells
//
// With [WithTrackedCells] only mutations that change a tracked cell are
// recorded, and undo/redo only move tracked cells: the restored snapshot
// is the current state with the tracked cells overwritten from history.
// Untracked cells keep their latest live values. Only base cells can be
// tracked; derived and unknown IDs are dropped by [New] with a warning.
//
// # Batching
//
// Multiple mutations can be collapsed into a single undo step:
//
//	m.StartBatch()
//	// ... several mutations ...
//	m.EndBatch()
//
// or with a scope:
//
//	defer m.BatchScope().End()
//
// StartBatch pushes an undo step unconditionally, even if nothing changes
// before EndBatch. Nested StartBatch calls push one step each.
//
// # Pausing
//
// While tracking is paused (see [Manager.PauseTracking] and
// [WithTrackingEnabled]) mutations move present forward but are never
// recorded. Undo after resuming targets the last recorded point.
//
// # Self-inflicted Notifications
//
// Undo and redo restore a snapshot through the store, which notifies the
// manager like any other mutation. A single-use latch is armed right before
// each restore and swallows the next notification. This relies on the
// store emitting exactly one notification per restore, and on nothing else
// calling the store's restore while a manager is attached.
//
// # Events
//
// With [WithBus] the manager publishes a [Change] on "history.*" topics
// after each transition so callers can refresh undo/redo affordances.
package history
