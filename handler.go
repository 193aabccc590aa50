package escrowd

import (
	"encoding/json"
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd/errors"
)

// Handler runs one kind of message, for example a release of an escrow.
// Check only validates, Deliver also changes state.
type Handler interface {
	Checker
	Deliverer
}

// Checker is the validating half of a Handler.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is the state changing half of a Handler.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around every Handler call. Signature verification, panic
// recovery and savepoints are decorators. A decorator may stop the call by
// returning an error instead of calling next.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to messages. It is the setup side of a router.
type Registry interface {
	// Handle routes every message with the same path as msg to h.
	Handle(msg Msg, h Handler)
}

// CheckResult is returned by a successful Check.
type CheckResult struct {
	Data []byte
	Log  string
}

// DeliverResult is returned by a successful Deliver. Data is meant for
// machines, for example the id of a created escrow. Log is for humans.
type DeliverResult struct {
	Data []byte
	Log  string
}

// Msg is a request for a single state change, such as "escrow/refund". It
// carries no authentication, signatures live in the wrapping Tx.
type Msg interface {
	proto.Message

	// Path routes the message to its handler. It must match
	// [0-9A-Za-z_\-/]+.
	Path() string

	// Validate checks the message without looking at the state.
	Validate() error
}

// Tx is what a client submits: exactly one message plus whatever the
// decorators need, like signatures.
type Tx interface {
	proto.Message

	GetMsg() (Msg, error)
}

// GetPath returns the message path of tx, or "(missing)". Used for logging.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg copies the message of tx into destination, which must be a pointer
// to the expected message type, and validates it.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrInput, "transaction without a message")
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrap(errors.ErrType, "invalid destination")
	}
	src := reflect.ValueOf(msg)
	if !src.Type().AssignableTo(dst.Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dst.Elem().Set(src.Elem())

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

// TxDecoder parses raw transaction bytes.
type TxDecoder func(txBytes []byte) (Tx, error)

// Options is the app_state section of a genesis file, split by top level key.
// For example "escrow" holds the initial escrows and "conf" the
// configuration.
type Options map[string]json.RawMessage

// ReadOptions decodes the section under key into obj. A missing section
// leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw := o[key]
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis section of one extension into the store.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
