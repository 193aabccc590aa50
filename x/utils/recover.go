package utils

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Recovery converts a panic raised by any handler further down the stack into
// an ErrPanic error, so that a broken escrow operation fails the transaction
// instead of halting the node. Every recovered panic is logged together with
// the message path.
type Recovery struct{}

var _ escrowd.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

func (r Recovery) Check(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (_ *escrowd.CheckResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Check(ctx, store, tx)
}

func (r Recovery) Deliver(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (_ *escrowd.DeliverResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Deliver(ctx, store, tx)
}

// recoverTx must be called directly by a deferred statement.
func recoverTx(ctx escrowd.Context, tx escrowd.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	logger := escrowd.GetLogger(ctx)
	if tx != nil {
		logger = logger.With("path", escrowd.GetPath(tx))
	}
	logger.Error("recovered from panic", "panic", r)
}
