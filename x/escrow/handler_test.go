package escrow

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/gconf"
	"github.com/iov-one/escrowd/orm"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/iov-one/escrowd/weavetest/assert"
	"github.com/iov-one/escrowd/x/utils"
)

// testRouter is a minimal registry dispatching by message path.
type testRouter map[string]escrowd.Handler

func (r testRouter) Handle(m escrowd.Msg, h escrowd.Handler) {
	r[m.Path()] = h
}

func (r testRouter) handler(t testing.TB, tx escrowd.Tx) escrowd.Handler {
	t.Helper()
	h, ok := r[escrowd.GetPath(tx)]
	if !ok {
		t.Fatalf("no handler for %q", escrowd.GetPath(tx))
	}
	return h
}

func TestHandlers(t *testing.T) {
	buyer := weavetest.NewCondition()
	seller := weavetest.NewCondition()
	stranger := weavetest.NewCondition()

	createMsg := &CreateMsg{Buyer: buyer.Address(), Seller: seller.Address(), Amount: 100}

	// Each case is executed against a store where escrow 1 exists and
	// is active.
	cases := map[string]struct {
		Signers        []escrowd.Condition
		Msg            escrowd.Msg
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantState      State
		WantData       []byte
	}{
		"buyer creates another escrow": {
			Signers:   []escrowd.Condition{buyer},
			Msg:       createMsg,
			WantState: StateActive,
			WantData:  orm.EncodeSequence(2),
		},
		"seller cannot create for the buyer": {
			Signers:        []escrowd.Condition{seller},
			Msg:            createMsg,
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantState:      StateActive,
		},
		"create with an invalid seller": {
			Signers:        []escrowd.Condition{buyer},
			Msg:            &CreateMsg{Buyer: buyer.Address(), Seller: escrowd.Address("x")},
			WantCheckErr:   errors.ErrInput,
			WantDeliverErr: errors.ErrInput,
			WantState:      StateActive,
		},
		"buyer releases": {
			Signers:   []escrowd.Condition{buyer},
			Msg:       &ReleaseMsg{EscrowID: 1},
			WantState: StateReleased,
		},
		"seller cannot release": {
			Signers:        []escrowd.Condition{seller},
			Msg:            &ReleaseMsg{EscrowID: 1},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantState:      StateActive,
		},
		"release of unknown escrow": {
			Signers:        []escrowd.Condition{buyer},
			Msg:            &ReleaseMsg{EscrowID: 42},
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
			WantState:      StateActive,
		},
		"release without id is an unknown escrow": {
			Signers:        []escrowd.Condition{buyer},
			Msg:            &ReleaseMsg{},
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
			WantState:      StateActive,
		},
		"refund without id is an unknown escrow": {
			Signers:        []escrowd.Condition{seller},
			Msg:            &RefundMsg{Caller: seller.Address()},
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
			WantState:      StateActive,
		},
		"seller refunds": {
			Signers:   []escrowd.Condition{seller},
			Msg:       &RefundMsg{EscrowID: 1, Caller: seller.Address()},
			WantState: StateRefunded,
		},
		"buyer refunds": {
			Signers:   []escrowd.Condition{buyer},
			Msg:       &RefundMsg{EscrowID: 1, Caller: buyer.Address()},
			WantState: StateRefunded,
		},
		"stranger cannot refund": {
			Signers:        []escrowd.Condition{stranger},
			Msg:            &RefundMsg{EscrowID: 1, Caller: stranger.Address()},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantState:      StateActive,
		},
		"caller must sign the refund": {
			Signers:        []escrowd.Condition{stranger},
			Msg:            &RefundMsg{EscrowID: 1, Caller: buyer.Address()},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantState:      StateActive,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &weavetest.CtxAuth{Key: "auth"}
			rt := make(testRouter)
			RegisterRoutes(rt, auth)
			db := store.MemStore()

			setup := &weavetest.Tx{Msg: createMsg}
			ctx := auth.SetConditions(blockCtx(10), buyer)
			if _, err := rt.handler(t, setup).Deliver(ctx, db, setup); err != nil {
				t.Fatalf("cannot create escrow: %s", err)
			}

			tx := &weavetest.Tx{Msg: tc.Msg}
			ctx = auth.SetConditions(blockCtx(11), tc.Signers...)
			h := rt.handler(t, tx)

			cache := db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			res, err := h.Deliver(ctx, db, tx)
			if !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if err == nil && tc.WantData != nil {
				assert.Equal(t, tc.WantData, res.Data)
			}

			e, err := NewStore().Get(db, 1)
			assert.Nil(t, err)
			assert.Equal(t, tc.WantState, e.State())
		})
	}
}

func TestCheckDoesNotWrite(t *testing.T) {
	buyer := weavetest.NewCondition()
	auth := &weavetest.Auth{Signer: buyer}
	rt := make(testRouter)
	RegisterRoutes(rt, auth)
	db := store.MemStore()

	tx := &weavetest.Tx{Msg: &CreateMsg{Buyer: buyer.Address(), Seller: buyer.Address(), Amount: 1}}
	if _, err := rt.handler(t, tx).Check(blockCtx(1), db, tx); err != nil {
		t.Fatalf("check failed: %s", err)
	}
	last, err := NewStore().LastID(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), last)
}

func TestDeliverIsAtomic(t *testing.T) {
	buyer := weavetest.NewCondition()
	auth := &weavetest.Auth{Signer: buyer}
	rt := make(testRouter)
	RegisterRoutes(rt, auth)
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &CreateMsg{Buyer: buyer.Address(), Seller: buyer.Address(), Amount: 1}}
	savepoint := utils.NewSavepoint().OnDeliver()

	// Configuration is loaded only after the counter and the record
	// are written, so a broken configuration fails the very last step.
	assert.Nil(t, db.Set(gconf.Key(ConfigurationName), []byte("not a protobuf message")))

	_, err := savepoint.Deliver(blockCtx(1), db, tx, rt.handler(t, tx))
	assert.IsErr(t, errors.ErrModel, err)

	s := NewStore()
	last, err := s.LastID(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), last)
	_, err = s.Get(db, 1)
	assert.IsErr(t, errors.ErrNotFound, err)

	assert.Nil(t, db.Delete(gconf.Key(ConfigurationName)))
	res, err := savepoint.Deliver(blockCtx(2), db, tx, rt.handler(t, tx))
	assert.Nil(t, err)
	assert.Equal(t, orm.EncodeSequence(1), res.Data)
}

func TestQueryEscrow(t *testing.T) {
	buyer := weavetest.NewCondition()
	ctrl := NewController(&weavetest.Auth{Signer: buyer})
	db := store.MemStore()
	id, err := ctrl.Create(blockCtx(1), db, buyer.Address(), buyer.Address(), 33)
	assert.Nil(t, err)

	qr := escrowd.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/escrows")

	models, err := h.Query(db, orm.EncodeSequence(id))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	assert.Equal(t, ctrl.Store().DBKey(KeyEscrow(id)), models[0].Key)
	var got Escrow
	assert.Nil(t, proto.Unmarshal(models[0].Value, &got))
	assert.Equal(t, int64(33), got.Amount)
	assert.Equal(t, true, got.IsActive)

	models, err = h.Query(db, orm.EncodeSequence(id+1))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(models))

	_, err = h.Query(db, []byte("bad"))
	assert.IsErr(t, errors.ErrInput, err)
}
