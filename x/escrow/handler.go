package escrow

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
	"github.com/iov-one/escrowd/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r escrowd.Registry, auth x.Authenticator) {
	ctrl := NewController(auth)
	r.Handle(&CreateMsg{}, CreateEscrowHandler{ctrl})
	r.Handle(&ReleaseMsg{}, ReleaseEscrowHandler{ctrl})
	r.Handle(&RefundMsg{}, RefundEscrowHandler{ctrl})
}

// RegisterQuery will register escrow lookup by id as "/escrows"
func RegisterQuery(qr escrowd.QueryRouter) {
	qr.Register("/escrows", escrowQuery{store: NewStore()})
}

// CreateEscrowHandler opens new escrows.
type CreateEscrowHandler struct {
	ctrl *Controller
}

var _ escrowd.Handler = CreateEscrowHandler{}

// Check verifies the message is well formed and signed by the buyer.
func (h CreateEscrowHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{}, nil
}

// Deliver creates the escrow and returns its id, encoded as 8 byte big
// endian, as the result data.
func (h CreateEscrowHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	id, err := h.ctrl.Create(ctx, db, msg.Buyer, msg.Seller, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &escrowd.DeliverResult{
		Data: orm.EncodeSequence(id),
		Log:  fmt.Sprintf("escrow %d created", id),
	}, nil
}

func (h CreateEscrowHandler) validate(ctx escrowd.Context, tx escrowd.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.CheckCreate(ctx, msg.Buyer); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReleaseEscrowHandler pays active escrows out to the seller.
type ReleaseEscrowHandler struct {
	ctrl *Controller
}

var _ escrowd.Handler = ReleaseEscrowHandler{}

// Check runs all release preconditions without modifying the state.
func (h ReleaseEscrowHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	var msg ReleaseMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.ctrl.CheckRelease(ctx, db, msg.EscrowID); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{}, nil
}

// Deliver releases the escrow.
func (h ReleaseEscrowHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	var msg ReleaseMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.Release(ctx, db, msg.EscrowID); err != nil {
		return nil, err
	}
	return &escrowd.DeliverResult{
		Log: fmt.Sprintf("escrow %d released", msg.EscrowID),
	}, nil
}

// RefundEscrowHandler returns active escrows to the buyer.
type RefundEscrowHandler struct {
	ctrl *Controller
}

var _ escrowd.Handler = RefundEscrowHandler{}

// Check runs all refund preconditions without modifying the state.
func (h RefundEscrowHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	var msg RefundMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.ctrl.CheckRefund(ctx, db, msg.EscrowID, msg.Caller); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{}, nil
}

// Deliver refunds the escrow.
func (h RefundEscrowHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	var msg RefundMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.Refund(ctx, db, msg.EscrowID, msg.Caller); err != nil {
		return nil, err
	}
	return &escrowd.DeliverResult{
		Log: fmt.Sprintf("escrow %d refunded", msg.EscrowID),
	}, nil
}

// escrowQuery returns a single escrow. Query data is the 8 byte big endian
// escrow id. An unknown id results in an empty response.
type escrowQuery struct {
	store *Store
}

func (q escrowQuery) Query(db escrowd.ReadOnlyKVStore, data []byte) ([]escrowd.Model, error) {
	id, err := orm.DecodeSequence(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "escrow id must be 8 bytes")
	}
	e, err := q.store.Get(db, id)
	if errors.ErrNotFound.Is(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	raw, err := proto.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return []escrowd.Model{escrowd.Pair(q.store.DBKey(KeyEscrow(id)), raw)}, nil
}
