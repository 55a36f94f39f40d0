package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/cellundo/internal/store"
)

func TestProject(t *testing.T) {
	st := newCounterStore(t)
	_ = st.Set("count", int64(3))

	got := Project(st, st.Snapshot(), []store.CellID{"count", "double", "missing"})
	want := Projection{"count": int64(3), "double": int64(6), "missing": nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Project() mismatch (-want +got):\n%s", diff)
	}

	if got := Project(st, st.Snapshot(), nil); len(got) != 0 {
		t.Errorf("Project(nil ids) = %v, want empty", got)
	}
}

func TestChanged(t *testing.T) {
	shared := []string{"a"}

	tests := []struct {
		name       string
		prev, curr Projection
		want       bool
	}{
		{"both empty", Projection{}, Projection{}, false},
		{"equal values", Projection{"a": int64(1), "b": "x"}, Projection{"a": int64(1), "b": "x"}, false},
		{"value changed", Projection{"a": int64(1)}, Projection{"a": int64(2)}, true},
		{"size differs", Projection{"a": int64(1)}, Projection{"a": int64(1), "b": int64(1)}, true},
		{"key set differs", Projection{"a": int64(1)}, Projection{"b": int64(1)}, true},
		{"same slice", Projection{"a": shared}, Projection{"a": shared}, false},
		{"equal slice contents", Projection{"a": shared}, Projection{"a": []string{"a"}}, true},
		{"nil to value", Projection{"a": nil}, Projection{"a": int64(0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Changed(tt.prev, tt.curr); got != tt.want {
				t.Errorf("Changed() = %v, want %v", got, tt.want)
			}
		})
	}
}
