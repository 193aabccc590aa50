// Package assert holds the few assertions used by table tests across
// escrowd. Every helper stops the test on failure.
package assert

import (
	"reflect"
	"testing"
)

// Tester is the part of testing.TB the helpers need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil or a nil pointer, slice, map, chan, func or
// interface. Errors are printed with %+v to show their stack trace.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails unless want and got are deeply equal, including their types.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal \nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	panicked := func() (p bool) {
		defer func() { p = recover() != nil }()
		fn()
		return false
	}()
	if !panicked {
		t.Fatal("panic expected")
	}
}

// IsErr fails unless got is want or, when want is a root error, got wraps
// want. A nil want accepts only a nil got.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if root, ok := want.(interface{ Is(error) bool }); ok && root.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
