package utils

import (
	"time"

	"github.com/iov-one/escrowd"
)

// Logging reports every processed transaction together with its route and
// processing time. Failures are logged as errors. Successful checks go to the
// debug level and successful deliveries to the info level.
type Logging struct{}

var _ escrowd.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	report(ctx, tx, time.Since(start), msg, err, false)
	return res, err
}

func (Logging) Deliver(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	report(ctx, tx, time.Since(start), msg, err, true)
	return res, err
}

func report(ctx escrowd.Context, tx escrowd.Tx, took time.Duration, msg string, err error, delivered bool) {
	logger := escrowd.GetLogger(ctx).With("duration", took/time.Microsecond)
	if tx != nil {
		logger = logger.With("path", escrowd.GetPath(tx))
	}
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case delivered:
		logger.Info(msg)
	default:
		// An empty message is still logged for the path and duration.
		logger.Debug(msg)
	}
}
