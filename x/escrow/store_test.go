package escrow

import (
	"testing"

	"github.com/iov-one/escrowd/gconf"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/iov-one/escrowd/weavetest/assert"
)

func TestStoreKeys(t *testing.T) {
	s := NewStore()
	assert.Equal(t, []byte("_s.escrow:id"), s.DBKey(KeyCounter()))
	assert.Equal(t, []byte("esc:\x00\x00\x00\x00\x00\x00\x00\x07"), s.DBKey(KeyEscrow(7)))
	assert.Panics(t, func() { s.DBKey(Key{}) })
}

func TestTTLExtension(t *testing.T) {
	auth := &weavetest.CtxAuth{Key: "auth"}
	buyer := weavetest.NewCondition()
	seller := weavetest.NewCondition()

	cases := map[string]struct {
		Conf *Configuration
		// Height at which the escrow is released, created at 1000.
		ReleaseHeight  int64
		WantAfterNew   int64
		WantAfterWrite int64
	}{
		"default configuration does not extend within the same block": {
			ReleaseHeight:  1000,
			WantAfterNew:   6000,
			WantAfterWrite: 6000,
		},
		"default configuration extends on any later block": {
			ReleaseHeight:  1010,
			WantAfterNew:   6000,
			WantAfterWrite: 6010,
		},
		"default configuration extends an old record": {
			ReleaseHeight:  2000,
			WantAfterNew:   6000,
			WantAfterWrite: 7000,
		},
		"low threshold never extends early": {
			Conf:           &Configuration{TTLThreshold: 10, TTLExtendTo: 100},
			ReleaseHeight:  1050,
			WantAfterNew:   1100,
			WantAfterWrite: 1100,
		},
		"low threshold extends close to expiration": {
			Conf:           &Configuration{TTLThreshold: 10, TTLExtendTo: 100},
			ReleaseHeight:  1095,
			WantAfterNew:   1100,
			WantAfterWrite: 1195,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.Conf != nil {
				assert.Nil(t, gconf.Save(db, ConfigurationName, tc.Conf))
			}
			ctrl := NewController(auth)
			s := ctrl.Store()

			id, err := ctrl.Create(auth.SetConditions(blockCtx(1000), buyer), db, buyer.Address(), seller.Address(), 1)
			assert.Nil(t, err)
			for _, k := range []Key{KeyEscrow(id), KeyCounter()} {
				got, err := s.LiveUntil(db, k)
				assert.Nil(t, err)
				assert.Equal(t, tc.WantAfterNew, got)
			}

			// Reads never extend.
			_, err = ctrl.View(db, id)
			assert.Nil(t, err)

			assert.Nil(t, ctrl.Release(auth.SetConditions(blockCtx(tc.ReleaseHeight), buyer), db, id))
			for _, k := range []Key{KeyEscrow(id), KeyCounter()} {
				got, err := s.LiveUntil(db, k)
				assert.Nil(t, err)
				assert.Equal(t, tc.WantAfterWrite, got)
			}
		})
	}
}

func TestFailedWriteDoesNotExtend(t *testing.T) {
	auth := &weavetest.CtxAuth{Key: "auth"}
	buyer := weavetest.NewCondition()
	db := store.MemStore()
	ctrl := NewController(auth)

	id, err := ctrl.Create(auth.SetConditions(blockCtx(1000), buyer), db, buyer.Address(), buyer.Address(), 1)
	assert.Nil(t, err)
	assert.Nil(t, ctrl.Release(auth.SetConditions(blockCtx(1000), buyer), db, id))

	err = ctrl.Release(auth.SetConditions(blockCtx(5000), buyer), db, id)
	assert.Equal(t, true, err != nil)

	got, err := ctrl.Store().LiveUntil(db, KeyEscrow(id))
	assert.Nil(t, err)
	assert.Equal(t, int64(6000), got)
}
