// Package invariant provides contract assertions for keyforge's core.
//
// These are programming-error checks, not user-input validation: a
// violation means the schema engine or KDF pipeline produced an
// impossible state, not that the caller supplied a bad schema or URL.
// All functions panic on violation.
package invariant

import (
	"fmt"
	"reflect"
)

// Precondition checks an input contract at function entry.
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal consistency condition mid-function.
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil (including a typed nil pointer/interface).
func NotNil(value interface{}, name string) {
	if value == nil || isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value interface{}) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

func fail(kind, format string, args ...interface{}) {
	panic(fmt.Sprintf("%s VIOLATION: %s", kind, fmt.Sprintf(format, args...)))
}
