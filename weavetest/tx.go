package weavetest

import (
	"github.com/iov-one/escrowd"
)

// Tx represents a transaction holding a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg escrowd.Msg
	// Err if set is returned by GetMsg.
	Err error
}

var _ escrowd.Tx = (*Tx)(nil)

func (tx *Tx) Reset()         { *tx = Tx{} }
func (tx *Tx) String() string { return "weavetest.Tx" }
func (*Tx) ProtoMessage()     {}

func (tx *Tx) GetMsg() (escrowd.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message routed by its path.
type Msg struct {
	// RoutePath is returned by the Path method, consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ escrowd.Msg = (*Msg)(nil)

func (m *Msg) Reset()         { *m = Msg{} }
func (m *Msg) String() string { return "weavetest.Msg " + m.RoutePath }
func (*Msg) ProtoMessage()    {}

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
