package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/escrow"
	"github.com/iov-one/escrowd/x/sigs"
)

// Tx is the only transaction type accepted by the application. Exactly one
// of the message fields must be set.
type Tx struct {
	Signatures       []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures" json:"signatures,omitempty"`
	CreateEscrowMsg  *escrow.CreateMsg    `protobuf:"bytes,2,opt,name=create_escrow_msg,json=createEscrowMsg" json:"create_escrow_msg,omitempty"`
	ReleaseEscrowMsg *escrow.ReleaseMsg   `protobuf:"bytes,3,opt,name=release_escrow_msg,json=releaseEscrowMsg" json:"release_escrow_msg,omitempty"`
	RefundEscrowMsg  *escrow.RefundMsg    `protobuf:"bytes,4,opt,name=refund_escrow_msg,json=refundEscrowMsg" json:"refund_escrow_msg,omitempty"`
}

func (tx *Tx) Reset()         { *tx = Tx{} }
func (tx *Tx) String() string { return proto.CompactTextString(tx) }
func (*Tx) ProtoMessage()     {}

var _ escrowd.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (escrowd.Msg, error) {
	var msgs []escrowd.Msg
	if tx.CreateEscrowMsg != nil {
		msgs = append(msgs, tx.CreateEscrowMsg)
	}
	if tx.ReleaseEscrowMsg != nil {
		msgs = append(msgs, tx.ReleaseEscrowMsg)
	}
	if tx.RefundEscrowMsg != nil {
		msgs = append(msgs, tx.RefundEscrowMsg)
	}
	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrInput, "transaction without a message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "transaction with %d messages", len(msgs))
	}
}

// SetMsg sets the message field matching the type of given message. All
// other message fields are cleared.
func (tx *Tx) SetMsg(msg escrowd.Msg) error {
	tx.CreateEscrowMsg = nil
	tx.ReleaseEscrowMsg = nil
	tx.RefundEscrowMsg = nil
	switch msg := msg.(type) {
	case *escrow.CreateMsg:
		tx.CreateEscrowMsg = msg
	case *escrow.ReleaseMsg:
		tx.ReleaseEscrowMsg = msg
	case *escrow.RefundMsg:
		tx.RefundEscrowMsg = msg
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return nil
}

// GetSignatures returns all signatures attached to this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction with signatures removed.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	bz, err := proto.Marshal(&unsigned)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// Decoder is an escrowd.TxDecoder for the application transaction.
func Decoder(bz []byte) (escrowd.Tx, error) {
	tx := new(Tx)
	if err := proto.Unmarshal(bz, tx); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return tx, nil
}

var _ escrowd.TxDecoder = Decoder
