package sigs

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/weavetest"
)

// StdTx is a signed transaction carrying an opaque payload.
type StdTx struct {
	weavetest.Tx
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ escrowd.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{
		Tx:      weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/sigs"}},
		Payload: payload,
	}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}
