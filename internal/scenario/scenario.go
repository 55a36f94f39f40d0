// Package scenario runs scripted store mutations against a history
// manager and checks the resulting cells and stack depths.
//
// A scenario is a YAML document:
//
//	name: batching
//	cells:
//	  count: 0
//	derived:
//	  double: {from: count, multiply: 2}
//	history:
//	  tracked_cells: [count]
//	steps:
//	  - op: start_batch
//	  - {op: inc, cell: count, times: 3}
//	  - op: end_batch
//	  - op: undo
//	  - {op: expect, cells: {count: 0, double: 0}, past_depth: 0, future_depth: 1}
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Ops understood by the runner.
const (
	OpSet        = "set"
	OpInc        = "inc"
	OpDec        = "dec"
	OpUndo       = "undo"
	OpRedo       = "redo"
	OpStartBatch = "start_batch"
	OpEndBatch   = "end_batch"
	OpPause      = "pause"
	OpResume     = "resume"
	OpExpect     = "expect"
)

// ErrInvalidScenario indicates a scenario that cannot be run.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is one scripted run.
type Scenario struct {
	Name    string             `yaml:"name"`
	Cells   map[string]any     `yaml:"cells"`
	Derived map[string]Derived `yaml:"derived"`
	History *History           `yaml:"history"`
	Steps   []Step             `yaml:"steps"`
}

// Derived defines a read-only cell as another cell times a factor.
// A zero factor copies the source cell.
type Derived struct {
	From     string `yaml:"from"`
	Multiply int64  `yaml:"multiply"`
}

// History overrides the runner's history settings for one scenario.
// Nil fields keep the runner's value.
type History struct {
	TrackedCells             []string `yaml:"tracked_cells"`
	StartWithTrackingEnabled *bool    `yaml:"start_with_tracking_enabled"`
	MaxEntries               *int     `yaml:"max_entries"`
}

// Step is one operation. Times repeats it; zero means once.
type Step struct {
	Op    string `yaml:"op"`
	Cell  string `yaml:"cell,omitempty"`
	Value any    `yaml:"value,omitempty"`
	By    int64  `yaml:"by,omitempty"`
	Times int    `yaml:"times,omitempty"`

	// Expectations, used by OpExpect.
	Cells       map[string]any `yaml:"cells,omitempty"`
	PastDepth   *int           `yaml:"past_depth,omitempty"`
	FutureDepth *int           `yaml:"future_depth,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario document. Integer values are
// normalized to int64 so they compare equal to what the runner writes.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScenario)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	for name, v := range sc.Cells {
		sc.Cells[name] = normalize(v)
	}
	for i := range sc.Steps {
		st := &sc.Steps[i]
		st.Value = normalize(st.Value)
		for name, v := range st.Cells {
			st.Cells[name] = normalize(v)
		}
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks cell references and step shapes.
func (sc *Scenario) Validate() error {
	var errs []error

	for name, d := range sc.Derived {
		if _, ok := sc.Cells[name]; ok {
			errs = append(errs, fmt.Errorf("derived cell %q shadows a base cell", name))
		}
		if _, ok := sc.Cells[d.From]; !ok {
			errs = append(errs, fmt.Errorf("derived cell %q reads unknown cell %q", name, d.From))
		}
	}

	if sc.History != nil {
		for _, name := range sc.History.TrackedCells {
			if _, ok := sc.Derived[name]; ok {
				errs = append(errs, fmt.Errorf("tracked cell %q is derived; track its sources", name))
			} else if _, ok := sc.Cells[name]; !ok {
				errs = append(errs, fmt.Errorf("tracked cell %q is unknown", name))
			}
		}
	}

	for i, st := range sc.Steps {
		if st.Times < 0 {
			errs = append(errs, fmt.Errorf("step %d: negative times", i+1))
		}
		switch st.Op {
		case OpSet, OpInc, OpDec:
			if _, ok := sc.Cells[st.Cell]; !ok {
				errs = append(errs, fmt.Errorf("step %d: %s of unknown cell %q", i+1, st.Op, st.Cell))
			}
		case OpUndo, OpRedo, OpStartBatch, OpEndBatch, OpPause, OpResume:
		case OpExpect:
			for name := range st.Cells {
				if !sc.hasCell(name) {
					errs = append(errs, fmt.Errorf("step %d: expectation on unknown cell %q", i+1, name))
				}
			}
		default:
			errs = append(errs, fmt.Errorf("step %d: unknown op %q", i+1, st.Op))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, errors.Join(errs...))
	}
	return nil
}

func (sc *Scenario) hasCell(name string) bool {
	if _, ok := sc.Cells[name]; ok {
		return true
	}
	_, ok := sc.Derived[name]
	return ok
}

// normalize converts the integer kinds yaml produces to int64.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[k] = normalize(e)
		}
		return out
	default:
		return v
	}
}
