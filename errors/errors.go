package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors. Codes are part of the public API of the node: clients decide
// what to do based on them, so a code must never be reused or renumbered.
var (
	// ErrUnauthorized means the caller is not a party allowed to run the
	// operation, for example a release not signed by the buyer.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound means the referenced record, usually an escrow, does
	// not exist.
	ErrNotFound = Register(3, "not found")

	// ErrModel is returned when a stored record cannot be decoded or fails
	// its validation.
	ErrModel = Register(5, "invalid model")

	// ErrHuman marks a code path that is unreachable when the application
	// is wired correctly.
	ErrHuman = Register(7, "coding error")

	// ErrImmutable is returned on an attempt to change a value that can be
	// set only once, like the chain id.
	ErrImmutable = Register(8, "cannot be modified")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrInvalidState means the record exists but is not in a state that
	// allows the operation, for example releasing a refunded escrow.
	ErrInvalidState = Register(10, "invalid state")

	// ErrType is returned when a value has an unexpected type or format.
	ErrType = Register(11, "invalid type")

	// ErrInput is returned for malformed input.
	ErrInput = Register(14, "invalid input")

	// ErrOverflow is returned when a result does not fit its type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when the storage engine fails.
	ErrDatabase = Register(17, "database")

	// ErrPanic wraps a recovered panic. Its message is never shown to
	// clients outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// usedCodes guards code uniqueness. Code 1 is reserved for errors that carry
// no code at all.
var usedCodes = map[uint32]*Error{1: nil}

// Register declares a new root error. Call it only from package level
// variable declarations. It panics if the code is already taken.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// Error is a root error. Every error returned by a handler should wrap one
// of them, so that its code can be reported to the client.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the public code of this error.
func (e Error) Code() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Is returns true if err is e or wraps e. A nil *Error matches only a nil
// error.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	return walk(err, func(cur error) bool { return cur == e })
}

// Wrap adds description to err. A nil err stays nil, so that
//
//   return errors.Wrap(store.Put(db, key, obj), "escrow")
//
// is fine. A stack trace is recorded by the innermost wrap only.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover turns a panic into an ErrPanic assigned to err. It must be called
// directly by a deferred statement.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// walk calls fn for err and then for every error it wraps, until fn returns
// true. It reports whether any call returned true.
func walk(err error, fn func(error) bool) bool {
	for err != nil {
		if fn(err) {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// stackTrace returns the first stack trace found in the wrap chain.
func stackTrace(err error) errors.StackTrace {
	var st errors.StackTrace
	walk(err, func(cur error) bool {
		if t, ok := cur.(stackTracer); ok {
			st = t.StackTrace()
			return true
		}
		return false
	})
	return st
}

// isNilErr also catches a typed nil pointer stored in the error interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}
