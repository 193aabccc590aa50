package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Escrow is the persisted state of a single conditional payment.
type Escrow struct {
	EscrowID   uint64           `protobuf:"varint,1,opt,name=escrow_id,proto3" json:"escrow_id"`
	Buyer      escrowd.Address  `protobuf:"bytes,2,opt,name=buyer,proto3" json:"buyer"`
	Seller     escrowd.Address  `protobuf:"bytes,3,opt,name=seller,proto3" json:"seller"`
	Amount     int64            `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
	IsActive   bool             `protobuf:"varint,5,opt,name=is_active,proto3" json:"is_active"`
	IsReleased bool             `protobuf:"varint,6,opt,name=is_released,proto3" json:"is_released"`
	IsRefunded bool             `protobuf:"varint,7,opt,name=is_refunded,proto3" json:"is_refunded"`
	CreatedAt  escrowd.UnixTime `protobuf:"varint,8,opt,name=created_at,proto3" json:"created_at"`
}

func (m *Escrow) Reset()         { *m = Escrow{} }
func (m *Escrow) String() string { return proto.CompactTextString(m) }
func (*Escrow) ProtoMessage()    {}

// State is the lifecycle state of an escrow.
type State int

const (
	// StateInvalid is reported for records with inconsistent flags. It is
	// never persisted.
	StateInvalid State = iota
	StateActive
	StateReleased
	StateRefunded
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateReleased:
		return "released"
	case StateRefunded:
		return "refunded"
	default:
		return "invalid"
	}
}

// State returns the lifecycle state encoded by the flags.
func (m *Escrow) State() State {
	switch {
	case m.IsActive && !m.IsReleased && !m.IsRefunded:
		return StateActive
	case !m.IsActive && m.IsReleased && !m.IsRefunded:
		return StateReleased
	case !m.IsActive && !m.IsReleased && m.IsRefunded:
		return StateRefunded
	default:
		return StateInvalid
	}
}

// Validate ensures the escrow is consistent. Buyer and seller may be the same
// address and the amount is not checked.
func (m *Escrow) Validate() error {
	if m.EscrowID == 0 {
		return errors.Wrap(errors.ErrModel, "missing escrow id")
	}
	if err := m.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := m.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	if m.State() == StateInvalid {
		return errors.Wrap(errors.ErrInvalidState, "exactly one lifecycle flag must be set")
	}
	if err := m.CreatedAt.Validate(); err != nil {
		return errors.Wrap(err, "created at")
	}
	return nil
}

// Configuration holds the lifetime extension parameters, in blocks.
type Configuration struct {
	// TTLThreshold is the remaining lifetime below which a written record
	// lifetime is extended.
	TTLThreshold uint32 `protobuf:"varint,1,opt,name=ttl_threshold,proto3" json:"ttl_threshold"`
	// TTLExtendTo is the lifetime given to an extended record.
	TTLExtendTo uint32 `protobuf:"varint,2,opt,name=ttl_extend_to,proto3" json:"ttl_extend_to"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

// DefaultConfiguration is used when no configuration was stored.
func DefaultConfiguration() Configuration {
	return Configuration{
		TTLThreshold: 5000,
		TTLExtendTo:  5000,
	}
}

func (m *Configuration) Validate() error {
	if m.TTLExtendTo == 0 {
		return errors.Wrap(errors.ErrModel, "ttl extend to must be positive")
	}
	if m.TTLThreshold > m.TTLExtendTo {
		return errors.Wrap(errors.ErrModel, "ttl threshold must not exceed ttl extend to")
	}
	return nil
}
