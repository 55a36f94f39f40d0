package history

import (
	"testing"

	"github.com/dshills/cellundo/internal/store"
)

// counterApp mirrors a small UI: a counter, its double and a text field.
type counterApp struct {
	t  *testing.T
	st *store.Store
	m  *Manager
}

func newCounterStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	opts = append([]store.Option{store.WithCells(map[store.CellID]any{
		"count": int64(0),
		"text":  "",
	})}, opts...)
	st := store.New(opts...)
	if err := st.Derive("double", func(get store.Getter) any {
		return get("count").(int64) * 2
	}); err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	return st
}

func newCounterApp(t *testing.T, opts ...Option) *counterApp {
	t.Helper()
	st := newCounterStore(t)
	m := New(st, opts...)
	t.Cleanup(m.Close)
	return &counterApp{t: t, st: st, m: m}
}

func (a *counterApp) add(delta int64) {
	a.t.Helper()
	err := a.st.Update("count", func(old any) any { return old.(int64) + delta })
	if err != nil {
		a.t.Fatalf("Update failed: %v", err)
	}
}

func (a *counterApp) plus()  { a.add(1) }
func (a *counterApp) minus() { a.add(-1) }

func (a *counterApp) typeText(s string) {
	a.t.Helper()
	if err := a.st.Set("text", s); err != nil {
		a.t.Fatalf("Set failed: %v", err)
	}
}

func (a *counterApp) count() int64  { return a.st.Get("count").(int64) }
func (a *counterApp) double() int64 { return a.st.Get("double").(int64) }
func (a *counterApp) text() string  { return a.st.Get("text").(string) }

func (a *counterApp) expectCount(want int64) {
	a.t.Helper()
	if got := a.count(); got != want {
		a.t.Errorf("count = %d, want %d", got, want)
	}
}

func (a *counterApp) expectDepths(past, future int) {
	a.t.Helper()
	if got := a.m.PastDepth(); got != past {
		a.t.Errorf("PastDepth() = %d, want %d", got, past)
	}
	if got := a.m.FutureDepth(); got != future {
		a.t.Errorf("FutureDepth() = %d, want %d", got, future)
	}
}
