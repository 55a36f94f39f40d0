package history

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/cellundo/internal/store"
)

// bridge forwards store notifications to the manager and swallows the
// echo of the manager's own restores.
type bridge struct {
	store  Store
	record func(prev, next *store.Snapshot)

	// selfInflicted is a single-use latch, not a counter.
	selfInflicted atomic.Bool
	closed        atomic.Bool

	unsubscribe func()
	closeOnce   sync.Once
}

func newBridge(st Store, record func(prev, next *store.Snapshot)) *bridge {
	b := &bridge{
		store:  st,
		record: record,
	}
	b.unsubscribe = st.Subscribe(b.handle)
	return b
}

// handle receives one committed transition from the store.
func (b *bridge) handle(prev, next *store.Snapshot) {
	if b.selfInflicted.Swap(false) {
		return
	}
	b.record(prev, next)
}

// restore makes snap current through the store without recording it.
func (b *bridge) restore(snap *store.Snapshot) {
	if !b.closed.Load() {
		b.selfInflicted.Store(true)
	}
	b.store.Restore(snap)
}

func (b *bridge) close() {
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		b.unsubscribe()
	})
}
