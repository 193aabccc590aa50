package app

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/iov-one/escrowd/weavetest/assert"
	"github.com/iov-one/escrowd/x/escrow"
	"github.com/iov-one/escrowd/x/sigs"
)

func TestTxGetMsg(t *testing.T) {
	release := &escrow.ReleaseMsg{EscrowID: 3}

	cases := map[string]struct {
		Tx      Tx
		WantMsg escrowd.Msg
		WantErr *errors.Error
	}{
		"single message": {
			Tx:      Tx{ReleaseEscrowMsg: release},
			WantMsg: release,
		},
		"no message": {
			Tx:      Tx{},
			WantErr: errors.ErrInput,
		},
		"two messages": {
			Tx:      Tx{ReleaseEscrowMsg: release, RefundEscrowMsg: &escrow.RefundMsg{EscrowID: 3}},
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg, err := tc.Tx.GetMsg()
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr == nil {
				assert.Equal(t, tc.WantMsg, msg)
			}
		})
	}
}

func TestTxSetMsg(t *testing.T) {
	var tx Tx
	assert.Nil(t, tx.SetMsg(&escrow.ReleaseMsg{EscrowID: 1}))
	assert.Nil(t, tx.SetMsg(&escrow.RefundMsg{EscrowID: 1}))
	assert.Equal(t, true, tx.ReleaseEscrowMsg == nil)
	assert.Equal(t, true, tx.RefundEscrowMsg != nil)

	err := tx.SetMsg(&weavetest.Msg{RoutePath: "test/other"})
	assert.IsErr(t, errors.ErrType, err)
}

func TestTxEncoding(t *testing.T) {
	key := weavetest.NewKey()
	buyer := key.PublicKey().Address()
	tx := &Tx{
		CreateEscrowMsg: &escrow.CreateMsg{
			Buyer:  buyer,
			Seller: weavetest.RandomAddr(t),
			Amount: 777,
		},
	}

	unsigned, err := tx.GetSignBytes()
	assert.Nil(t, err)

	sig, err := sigs.SignTx(key, tx, "test-chain", 0)
	assert.Nil(t, err)
	tx.Signatures = append(tx.Signatures, sig)

	// signatures are not part of the signed data
	signed, err := tx.GetSignBytes()
	assert.Nil(t, err)
	assert.Equal(t, unsigned, signed)

	raw, err := proto.Marshal(tx)
	assert.Nil(t, err)
	decoded, err := Decoder(raw)
	assert.Nil(t, err)

	got := decoded.(*Tx)
	assert.Equal(t, 1, len(got.Signatures))
	assert.Equal(t, int64(777), got.CreateEscrowMsg.Amount)
	assert.Equal(t, true, buyer.Equals(got.CreateEscrowMsg.Buyer))

	conds, err := sigs.VerifyTxSignatures(store.MemStore(), got, "test-chain")
	assert.Nil(t, err)
	assert.Equal(t, true, buyer.Equals(conds[0].Address()))

	// declared message length exceeds the data
	_, err = Decoder([]byte{0x12, 0x05, 0x01})
	assert.IsErr(t, errors.ErrInput, err)
}
