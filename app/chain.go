package app

import (
	"reflect"

	"github.com/iov-one/escrowd"
)

// Decorators is an ordered list of decorators waiting for the final handler.
// The first decorator is the outermost one.
type Decorators struct {
	chain []escrowd.Decorator
}

// ChainDecorators starts a decorator stack. Nil decorators are skipped, so
// optional ones can be passed unconditionally:
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     sigs.NewDecorator(),
//   ).WithHandler(router)
func ChainDecorators(chain ...escrowd.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack extended with given decorators. The receiver is
// not modified.
func (d Decorators) Chain(chain ...escrowd.Decorator) Decorators {
	next := make([]escrowd.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if !isNil(dec) {
			next = append(next, dec)
		}
	}
	return Decorators{chain: next}
}

// isNil reports both an untyped nil and a typed nil pointer.
func isNil(d escrowd.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h.
func (d Decorators) WithHandler(h escrowd.Handler) escrowd.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step runs a single decorator around the rest of the stack.
type step struct {
	d    escrowd.Decorator
	next escrowd.Handler
}

var _ escrowd.Handler = step{}

func (s step) Check(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
