package store

import "testing"

type point struct{ X, Y int }

type boxed struct{ V any }

func TestEqual(t *testing.T) {
	slice := []int{1, 2, 3}
	m := map[string]int{"a": 1}
	p := &point{1, 2}
	fn := func() {}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil nil", nil, nil, true},
		{"nil value", nil, 0, false},
		{"ints", int64(2), int64(2), true},
		{"different ints", int64(2), int64(3), false},
		{"different types", int64(2), 2, false},
		{"strings", "yeet", "yeet", true},
		{"comparable structs", point{1, 2}, point{1, 2}, true},
		{"same pointer", p, p, true},
		{"equal pointees", p, &point{1, 2}, false},
		{"same slice", slice, slice, true},
		{"resliced", slice, slice[:2], false},
		{"equal contents", slice, []int{1, 2, 3}, false},
		{"same map", m, m, true},
		{"equal maps", m, map[string]int{"a": 1}, false},
		{"same func", fn, fn, true},
		{"uncomparable dynamic field", boxed{[]int{1}}, boxed{[]int{1}}, false},
		{"comparable dynamic field", boxed{1}, boxed{1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
