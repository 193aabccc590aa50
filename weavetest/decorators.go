package weavetest

import "github.com/iov-one/escrowd"

// Decorator is a mock implementation of the escrowd.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned. Each call is counted, whatever its result.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ escrowd.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return &escrowd.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return &escrowd.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}
