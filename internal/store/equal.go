package store

import "reflect"

// Equal reports whether two cell values are the same value.
//
// Comparable values (numbers, strings, bools, pointers, comparable structs)
// compare with ==. Slices, maps, funcs and chans compare by identity: two
// slices are equal only when they share the same backing array and length.
// Contents are never inspected. Non-comparable structs and arrays are never
// equal to anything.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func, reflect.Chan:
		return va.Pointer() == vb.Pointer()
	}

	if !va.Type().Comparable() {
		return false
	}
	return comparableEqual(a, b)
}

// comparableEqual guards against structs whose interface fields hold
// uncomparable dynamic values.
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
