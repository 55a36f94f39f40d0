package scenario

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/dshills/cellundo/internal/config"
	"github.com/dshills/cellundo/internal/event"
	"github.com/dshills/cellundo/internal/history"
	"github.com/dshills/cellundo/internal/store"
)

// Result describes one scenario run.
type Result struct {
	Name     string
	Steps    int
	Failures []*ExpectationError

	// Changes lists every history transition in order.
	Changes []history.Change
	// Final is the store snapshot after the last step.
	Final *store.Snapshot
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHistoryConfig sets the history defaults scenarios start from.
func WithHistoryConfig(hc config.HistoryConfig) Option {
	return func(r *Runner) {
		r.history = hc
	}
}

// WithDebounce sets how long Watch waits for writes to settle.
func WithDebounce(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.debounce = d
		}
	}
}

// Runner executes scenarios. A Runner holds no per-run state and may
// run scenarios concurrently.
type Runner struct {
	logger   *zap.Logger
	history  config.HistoryConfig
	debounce time.Duration
}

// NewRunner creates a runner with default history settings.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger:   zap.NewNop(),
		history:  config.Default().History,
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunFile loads and runs the scenario at path.
func (r *Runner) RunFile(path string) (*Result, error) {
	sc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return r.Run(sc)
}

// Run executes every step of sc on a fresh store and manager.
// Failed expectations are collected in the result; a step that cannot
// execute stops the run with a *StepError.
func (r *Runner) Run(sc *Scenario) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	logger := r.logger.With(zap.String("scenario", sc.Name))
	bus := event.NewBus(event.WithLogger(logger))
	st, err := r.buildStore(sc, bus, logger)
	if err != nil {
		return nil, err
	}

	res := &Result{Name: sc.Name}
	_, err = bus.SubscribeFunc("history.**", func(_ context.Context, ev event.Event) error {
		if c, ok := ev.Payload.(history.Change); ok {
			res.Changes = append(res.Changes, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cfg := config.Config{History: r.historyConfig(sc)}
	mgr := history.New(st, cfg.HistoryOptions(
		history.WithLogger(logger),
		history.WithBus(bus),
	)...)
	defer mgr.Close()

	for i, step := range sc.Steps {
		n := step.Times
		if n == 0 {
			n = 1
		}
		for range n {
			if err := r.exec(i+1, step, st, mgr, res); err != nil {
				return res, err
			}
		}
		res.Steps++
	}

	res.Final = st.Snapshot()
	logger.Debug("scenario finished",
		zap.Int("steps", res.Steps),
		zap.Int("failures", len(res.Failures)),
		zap.Int("past", mgr.PastDepth()),
		zap.Int("future", mgr.FutureDepth()))
	return res, nil
}

func (r *Runner) historyConfig(sc *Scenario) config.HistoryConfig {
	hc := r.history
	if sc.History == nil {
		return hc
	}
	if sc.History.TrackedCells != nil {
		hc.TrackedCells = sc.History.TrackedCells
	}
	if sc.History.StartWithTrackingEnabled != nil {
		hc.StartWithTrackingEnabled = *sc.History.StartWithTrackingEnabled
	}
	if sc.History.MaxEntries != nil {
		hc.MaxEntries = *sc.History.MaxEntries
	}
	return hc
}

func (r *Runner) buildStore(sc *Scenario, bus *event.Bus, logger *zap.Logger) (*store.Store, error) {
	cells := make(map[store.CellID]any, len(sc.Cells))
	for name, v := range sc.Cells {
		cells[store.CellID(name)] = v
	}
	st := store.New(
		store.WithBus(bus),
		store.WithLogger(logger),
		store.WithCells(cells),
	)

	for name, d := range sc.Derived {
		from, k := store.CellID(d.From), d.Multiply
		if k == 0 {
			k = 1
		}
		err := st.Derive(store.CellID(name), func(get store.Getter) any {
			return multiply(get(from), k)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
	}
	return st, nil
}

func (r *Runner) exec(n int, step Step, st *store.Store, mgr *history.Manager, res *Result) error {
	fail := func(err error) error {
		return &StepError{Step: n, Op: step.Op, Err: err}
	}

	switch step.Op {
	case OpSet:
		if err := st.Set(store.CellID(step.Cell), step.Value); err != nil {
			return fail(err)
		}
	case OpInc, OpDec:
		by := step.By
		if by == 0 {
			by = 1
		}
		if step.Op == OpDec {
			by = -by
		}
		// Nothing is committed unless the cell holds a number.
		id := store.CellID(step.Cell)
		old, ok := st.Snapshot().Get(id)
		if !ok {
			return fail(fmt.Errorf("%w: %s", store.ErrUnknownCell, id))
		}
		v, err := add(old, by)
		if err != nil {
			return fail(err)
		}
		if err := st.Set(id, v); err != nil {
			return fail(err)
		}
	case OpUndo:
		mgr.Undo()
	case OpRedo:
		mgr.Redo()
	case OpStartBatch:
		mgr.StartBatch()
	case OpEndBatch:
		mgr.EndBatch()
	case OpPause:
		mgr.PauseTracking()
	case OpResume:
		mgr.ResumeTracking()
	case OpExpect:
		res.Failures = append(res.Failures, check(n, step, st, mgr)...)
	default:
		return fail(fmt.Errorf("unknown op %q", step.Op))
	}
	return nil
}

func check(n int, step Step, st *store.Store, mgr *history.Manager) []*ExpectationError {
	var failures []*ExpectationError
	for _, name := range slices.Sorted(maps.Keys(step.Cells)) {
		want := step.Cells[name]
		got := st.Get(store.CellID(name))
		if diff := cmp.Diff(want, got); diff != "" {
			failures = append(failures, &ExpectationError{
				Step:  n,
				Field: "cell " + name,
				Want:  want,
				Got:   got,
				Diff:  diff,
			})
		}
	}
	if step.PastDepth != nil {
		if got := mgr.PastDepth(); got != *step.PastDepth {
			failures = append(failures, &ExpectationError{Step: n, Field: "past_depth", Want: *step.PastDepth, Got: got})
		}
	}
	if step.FutureDepth != nil {
		if got := mgr.FutureDepth(); got != *step.FutureDepth {
			failures = append(failures, &ExpectationError{Step: n, Field: "future_depth", Want: *step.FutureDepth, Got: got})
		}
	}
	return failures
}

func add(v any, by int64) (any, error) {
	switch n := v.(type) {
	case int64:
		return n + by, nil
	case float64:
		return n + float64(by), nil
	default:
		return nil, fmt.Errorf("cannot add to %T", v)
	}
}

func multiply(v any, k int64) any {
	switch n := v.(type) {
	case int64:
		return n * k
	case float64:
		return n * float64(k)
	default:
		return nil
	}
}
