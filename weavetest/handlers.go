package weavetest

import "github.com/iov-one/escrowd"

// Handler is a mock implementation of the escrowd.Handler interface. It
// counts calls and returns configured results.
type Handler struct {
	checkCall   int
	CheckResult escrowd.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult escrowd.DeliverResult
	DeliverErr    error
}

var _ escrowd.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	h.checkCall++
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	h.deliverCall++
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes a single key/value pair on every call and then returns
// configured error. Use it to test that a failure discards written state.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ escrowd.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{}, h.Err
}

func (h *WriteHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &escrowd.DeliverResult{}, h.Err
}

// PanicHandler panics on every call.
type PanicHandler struct {
	Msg string
}

var _ escrowd.Handler = PanicHandler{}

func (h PanicHandler) Check(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.CheckResult, error) {
	panic(h.Msg)
}

func (h PanicHandler) Deliver(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.DeliverResult, error) {
	panic(h.Msg)
}
