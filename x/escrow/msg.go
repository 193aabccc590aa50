package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

const (
	pathCreateMsg  = "escrow/create"
	pathReleaseMsg = "escrow/release"
	pathRefundMsg  = "escrow/refund"
)

// CreateMsg opens a new escrow. It must be signed by the buyer.
type CreateMsg struct {
	Buyer  escrowd.Address `protobuf:"bytes,1,opt,name=buyer,proto3" json:"buyer"`
	Seller escrowd.Address `protobuf:"bytes,2,opt,name=seller,proto3" json:"seller"`
	Amount int64           `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
}

func (m *CreateMsg) Reset()         { *m = CreateMsg{} }
func (m *CreateMsg) String() string { return proto.CompactTextString(m) }
func (*CreateMsg) ProtoMessage()    {}

var _ escrowd.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (m *CreateMsg) Validate() error {
	if err := m.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := m.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	return nil
}

// ReleaseMsg pays an active escrow out to the seller. It must be signed by
// the buyer.
type ReleaseMsg struct {
	EscrowID uint64 `protobuf:"varint,1,opt,name=escrow_id,proto3" json:"escrow_id"`
}

func (m *ReleaseMsg) Reset()         { *m = ReleaseMsg{} }
func (m *ReleaseMsg) String() string { return proto.CompactTextString(m) }
func (*ReleaseMsg) ProtoMessage()    {}

var _ escrowd.Msg = (*ReleaseMsg)(nil)

func (ReleaseMsg) Path() string {
	return pathReleaseMsg
}

// Validate accepts any id. Identifiers are allocated from 1, so a zero id
// fails on delivery as an unknown escrow.
func (m *ReleaseMsg) Validate() error {
	return nil
}

// RefundMsg returns an active escrow to the buyer. Caller is the acting party
// and must both sign the transaction and be the buyer or the seller.
type RefundMsg struct {
	EscrowID uint64          `protobuf:"varint,1,opt,name=escrow_id,proto3" json:"escrow_id"`
	Caller   escrowd.Address `protobuf:"bytes,2,opt,name=caller,proto3" json:"caller"`
}

func (m *RefundMsg) Reset()         { *m = RefundMsg{} }
func (m *RefundMsg) String() string { return proto.CompactTextString(m) }
func (*RefundMsg) ProtoMessage()    {}

var _ escrowd.Msg = (*RefundMsg)(nil)

func (RefundMsg) Path() string {
	return pathRefundMsg
}

func (m *RefundMsg) Validate() error {
	if err := m.Caller.Validate(); err != nil {
		return errors.Wrap(err, "caller")
	}
	return nil
}
