package utils

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Savepoint runs the rest of the stack on a cache of the store. The cache is
// written only when the call succeeds, so a failed escrow operation leaves no
// partial state behind (no counter bump, no TTL extension).
//
// A zero Savepoint does nothing; enable it with OnCheck and/or OnDeliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ escrowd.Decorator = Savepoint{}

// NewSavepoint creates a disabled Savepoint decorator.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	var res *escrowd.CheckResult
	err := savepoint(s.onCheck, store, func(db escrowd.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	var res *escrowd.DeliverResult
	err := savepoint(s.onDeliver, store, func(db escrowd.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// savepoint calls fn directly when disabled or when store cannot be cache
// wrapped.
func savepoint(enabled bool, store escrowd.KVStore, fn func(escrowd.KVStore) error) error {
	cstore, ok := store.(escrowd.CacheableKVStore)
	if !enabled || !ok {
		return fn(store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
