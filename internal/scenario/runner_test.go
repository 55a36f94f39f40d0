package scenario

import (
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/dshills/cellundo/internal/config"
	"github.com/dshills/cellundo/internal/history"
	"github.com/dshills/cellundo/internal/store"
)

func TestRunner_Testdata(t *testing.T) {
	tests := []string{"counter", "batching", "tracked", "paused"}

	r := NewRunner(WithLogger(zaptest.NewLogger(t)))
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := r.RunFile(filepath.Join("testdata", name+".yaml"))
			if err != nil {
				t.Fatalf("RunFile: %v", err)
			}
			if res.Name != name {
				t.Errorf("Name = %q, want %q", res.Name, name)
			}
			for _, f := range res.Failures {
				t.Error(f)
			}
		})
	}
}

func TestRunner_Failures(t *testing.T) {
	res, err := NewRunner().RunFile(filepath.Join("testdata", "failing.yaml"))
	if err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if res.Passed() {
		t.Fatal("Passed() = true, want false")
	}
	if len(res.Failures) != 2 {
		t.Fatalf("len(Failures) = %d, want 2: %v", len(res.Failures), res.Failures)
	}

	cell, depth := res.Failures[0], res.Failures[1]
	if cell.Field != "cell count" || cell.Want != int64(5) || cell.Got != int64(1) || cell.Diff == "" {
		t.Errorf("cell failure = %+v", cell)
	}
	if depth.Field != "future_depth" || depth.Want != 2 || depth.Got != 0 {
		t.Errorf("depth failure = %+v", depth)
	}
	if cell.Step != 2 || depth.Step != 2 {
		t.Errorf("failure steps = %d, %d, want 2", cell.Step, depth.Step)
	}
}

func TestRunner_Changes(t *testing.T) {
	res, err := NewRunner().RunFile(filepath.Join("testdata", "counter.yaml"))
	if err != nil {
		t.Fatalf("RunFile: %v", err)
	}

	want := []history.ChangeKind{
		history.ChangeRecorded,
		history.ChangeRecorded,
		history.ChangeRecorded,
		history.ChangeRecorded,
		history.ChangeUndone,
		history.ChangeRedone,
	}
	if len(res.Changes) != len(want) {
		t.Fatalf("len(Changes) = %d, want %d", len(res.Changes), len(want))
	}
	for i, c := range res.Changes {
		if c.Kind != want[i] {
			t.Errorf("Changes[%d].Kind = %v, want %v", i, c.Kind, want[i])
		}
	}
	if last := res.Changes[len(res.Changes)-1]; last.PastDepth != 4 || last.FutureDepth != 0 {
		t.Errorf("last change depths = %d/%d, want 4/0", last.PastDepth, last.FutureDepth)
	}

	if v, _ := res.Final.Get("count"); v != int64(2) {
		t.Errorf("final count = %v, want 2", v)
	}
	if res.Steps != 7 {
		t.Errorf("Steps = %d, want 7", res.Steps)
	}
}

func TestRunner_HistoryConfig(t *testing.T) {
	sc, err := Parse([]byte(`
cells: {count: 0}
steps:
  - {op: inc, cell: count, times: 5}
  - {op: expect, past_depth: 2}
`))
	if err != nil {
		t.Fatal(err)
	}

	r := NewRunner(WithHistoryConfig(config.HistoryConfig{
		StartWithTrackingEnabled: true,
		MaxEntries:               2,
	}))
	res, err := r.Run(sc)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range res.Failures {
		t.Error(f)
	}

	// Scenario settings win over the runner's.
	limit := 4
	sc.History = &History{MaxEntries: &limit}
	sc.Steps[1].PastDepth = &limit
	res, err = r.Run(sc)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range res.Failures {
		t.Error(f)
	}
}

func TestRunner_FloatCells(t *testing.T) {
	sc, err := Parse([]byte(`
cells: {level: 0.5}
derived:
  copy: {from: level}
steps:
  - {op: inc, cell: level, by: 2}
  - {op: expect, cells: {level: 2.5, copy: 2.5}}
  - op: undo
  - {op: expect, cells: {level: 0.5}}
`))
	if err != nil {
		t.Fatal(err)
	}
	res, err := NewRunner().Run(sc)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range res.Failures {
		t.Error(f)
	}
}

func TestRunner_StepError(t *testing.T) {
	sc, err := Parse([]byte(`
cells: {text: hi}
steps:
  - {op: inc, cell: text}
`))
	if err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner().Run(sc)
	var serr *StepError
	if !errors.As(err, &serr) {
		t.Fatalf("Run error = %v, want *StepError", err)
	}
	if serr.Step != 1 || serr.Op != OpInc {
		t.Errorf("StepError = %+v", serr)
	}
	if len(res.Changes) != 0 {
		t.Errorf("failed inc changed history: %v", res.Changes)
	}
}

func TestRunner_FailedIncCommitsNothing(t *testing.T) {
	sc, err := Parse([]byte(`
cells: {count: 0, text: hi}
steps:
  - {op: inc, cell: count}
  - {op: dec, cell: text}
`))
	if err != nil {
		t.Fatal(err)
	}

	var recorded int
	res, err := NewRunner().Run(sc)
	if err == nil {
		t.Fatal("dec of a string should fail")
	}
	for _, c := range res.Changes {
		if c.Kind == history.ChangeRecorded {
			recorded++
		}
	}
	if recorded != 1 {
		t.Errorf("recorded changes = %d, want 1 (the inc only)", recorded)
	}
}

func TestRunner_RejectsInvalidScenario(t *testing.T) {
	sc := &Scenario{Steps: []Step{{Op: "fly"}}}
	if _, err := NewRunner().Run(sc); !errors.Is(err, ErrInvalidScenario) {
		t.Errorf("Run error = %v, want ErrInvalidScenario", err)
	}
}

func TestRunner_Isolation(t *testing.T) {
	sc, err := Parse([]byte(`
cells: {count: 0}
steps:
  - {op: inc, cell: count}
  - {op: expect, cells: {count: 1}, past_depth: 1}
`))
	if err != nil {
		t.Fatal(err)
	}

	r := NewRunner()
	for i := 0; i < 3; i++ {
		res, err := r.Run(sc)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Passed() {
			t.Fatalf("run %d failed: %v", i, res.Failures)
		}
		if v, _ := res.Final.Get(store.CellID("count")); v != int64(1) {
			t.Fatalf("run %d final count = %v", i, v)
		}
	}
}
