package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/cellundo/internal/history"
	"github.com/dshills/cellundo/internal/store"
)

func newTestHost(t *testing.T, opts ...Option) (*Host, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithOutput(&out), WithLogger(zaptest.NewLogger(t))}, opts...)
	h := NewHost(opts...)
	t.Cleanup(func() { _ = h.Close() })
	return h, &out
}

func run(t *testing.T, h *Host, code string) {
	t.Helper()
	if err := h.DoString(context.Background(), code); err != nil {
		t.Fatalf("DoString: %v", err)
	}
}

func TestHost_Counter(t *testing.T) {
	h, out := newTestHost(t)

	run(t, h, `
cells.define("count", 0)
local function plus() cells.set("count", cells.get("count") + 1) end
local function minus() cells.set("count", cells.get("count") - 1) end
plus() plus() plus() minus()
print(cells.get("count"), history.past_depth())
history.undo()
print(cells.get("count"), history.past_depth(), history.future_depth())
history.redo()
print(cells.get("count"), history.past_depth(), history.future_depth())
`)

	want := "2\t4\n3\t3\t1\n2\t4\t0\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if v := h.Store().Get("count"); v != int64(2) {
		t.Errorf("count = %#v, want int64(2)", v)
	}
}

func TestHost_Batch(t *testing.T) {
	h, _ := newTestHost(t)

	run(t, h, `
cells.define("count", 0)
cells.set("count", 1)
history.batch(function()
  for i = 1, 3 do cells.set("count", cells.get("count") + 1) end
end)
`)
	m := h.Manager()
	if m.PastDepth() != 2 || m.IsBatching() {
		t.Fatalf("past=%d batching=%v, want 2 and false", m.PastDepth(), m.IsBatching())
	}

	run(t, h, `history.undo()`)
	if v := h.Store().Get("count"); v != int64(1) {
		t.Errorf("count after undo = %v, want 1", v)
	}
}

func TestHost_BatchClosesOnError(t *testing.T) {
	h, _ := newTestHost(t)

	err := h.DoString(context.Background(), `
cells.define("count", 0)
history.batch(function()
  cells.set("count", 5)
  error("boom")
end)
`)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("DoString error = %v, want boom", err)
	}
	if h.Manager().IsBatching() {
		t.Error("batch left open after error")
	}
}

func TestHost_StartEndBatch(t *testing.T) {
	h, out := newTestHost(t)

	run(t, h, `
cells.define("count", 0)
history.start_batch()
cells.set("count", 1)
cells.set("count", 2)
history.end_batch()
history.undo()
print(cells.get("count"), history.can_undo(), history.can_redo())
`)
	if got := out.String(); got != "0\tfalse\ttrue\n" {
		t.Errorf("output = %q", got)
	}
}

func TestHost_PauseResume(t *testing.T) {
	h, out := newTestHost(t)

	run(t, h, `
cells.define("count", 0)
history.pause()
cells.set("count", 10)
history.resume()
cells.set("count", 11)
print(history.past_depth())
history.undo()
print(cells.get("count"))
`)
	if got := out.String(); got != "1\n10\n" {
		t.Errorf("output = %q", got)
	}
}

func TestHost_HistoryOptions(t *testing.T) {
	h, _ := newTestHost(t, WithHistoryOptions(history.WithTrackedCells("count")))

	run(t, h, `
cells.define("count", 0)
cells.define("label", "")
cells.set("label", "x")
cells.set("count", 1)
history.undo()
`)
	if v := h.Store().Get("label"); v != "x" {
		t.Errorf("label = %v, want x (untracked)", v)
	}
	if v := h.Store().Get("count"); v != int64(0) {
		t.Errorf("count = %v, want 0", v)
	}
}

func TestHost_DefineAfterMutation(t *testing.T) {
	h, _ := newTestHost(t)

	err := h.DoString(context.Background(), `
cells.define("a", 1)
cells.set("a", 2)
cells.define("b", 1)
`)
	if err == nil || !strings.Contains(err.Error(), ErrCellsSealed.Error()) {
		t.Errorf("DoString error = %v, want sealed error", err)
	}
}

func TestHost_Errors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"set unknown cell", `cells.set("nope", 1)`},
		{"define twice", `cells.define("a", 1) cells.define("a", 2)`},
		{"define missing value", `cells.define("a")`},
		{"batch without function", `history.batch(1)`},
		{"syntax", `cells.set(`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHost(t)
			if err := h.DoString(context.Background(), tt.code); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHost_Sandbox(t *testing.T) {
	h, out := newTestHost(t)

	run(t, h, `print(io == nil, os == nil, dofile == nil, require == nil, load == nil)`)
	if got := out.String(); got != "true\ttrue\ttrue\ttrue\ttrue\n" {
		t.Errorf("sandbox globals = %q", got)
	}

	run(t, h, `print(string.upper("ok"), math.max(1, 2), table.concat({"a", "b"}, ","))`)
	if !strings.HasSuffix(out.String(), "OK\t2\ta,b\n") {
		t.Errorf("safe libraries missing: %q", out.String())
	}
}

func TestHost_Values(t *testing.T) {
	h, _ := newTestHost(t)

	run(t, h, `
cells.define("int", 3)
cells.define("float", 2.5)
cells.define("flag", true)
cells.define("list", {1, "two", 3.5})
cells.define("map", {k = "v"})
`)
	st := h.Store()
	want := map[string]any{
		"int":   int64(3),
		"float": 2.5,
		"flag":  true,
		"list":  []any{int64(1), "two", 3.5},
		"map":   map[string]any{"k": "v"},
	}
	for name, w := range want {
		if diff := cmp.Diff(w, st.Get(store.CellID(name))); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}

	var out bytes.Buffer
	h.out = &out
	run(t, h, `local l = cells.get("list") print(#l, l[2], cells.get("map").k)`)
	if got := out.String(); got != "3\ttwo\tv\n" {
		t.Errorf("round trip = %q", got)
	}
}

func TestHost_Names(t *testing.T) {
	h, out := newTestHost(t)
	run(t, h, `
cells.define("b", 1)
cells.define("a", 1)
print(table.concat(cells.names(), ","))
`)
	if got := out.String(); got != "a,b\n" {
		t.Errorf("names = %q", got)
	}
}

func TestHost_DoFile(t *testing.T) {
	h, out := newTestHost(t)

	path := filepath.Join(t.TempDir(), "script.lua")
	if err := os.WriteFile(path, []byte(`cells.define("x", 1) print(cells.get("x"))`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h.DoFile(context.Background(), path); err != nil {
		t.Fatalf("DoFile: %v", err)
	}
	if out.String() != "1\n" {
		t.Errorf("output = %q", out.String())
	}

	err := h.DoFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	if err == nil || !strings.Contains(err.Error(), "missing.lua") {
		t.Errorf("DoFile missing error = %v", err)
	}
}

func TestHost_ContextCancel(t *testing.T) {
	h, _ := newTestHost(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := h.DoString(ctx, `while true do end`)
	if err == nil {
		t.Fatal("infinite loop should be aborted by the context")
	}
}

func TestHost_Closed(t *testing.T) {
	h, _ := newTestHost(t)
	run(t, h, `cells.define("a", 1) cells.set("a", 2)`)

	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := h.DoString(context.Background(), `print(1)`); !errors.Is(err, ErrHostClosed) {
		t.Errorf("DoString after Close = %v, want ErrHostClosed", err)
	}
}

func TestToGo_Cycle(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tbl := L.NewTable()
	tbl.RawSetString("self", tbl)
	got := toGo(tbl)
	if diff := cmp.Diff(map[string]any{"self": nil}, got); diff != "" {
		t.Errorf("cycle mismatch (-want +got):\n%s", diff)
	}
}
