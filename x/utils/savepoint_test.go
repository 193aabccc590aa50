package utils

import (
	"context"
	"fmt"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always write ok, ov before calling functions
	ok, ov := []byte("demo"), []byte("data")
	// some key, value to try to write
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	// a default error if desired
	derr := errors.Wrap(errors.ErrInvalidState, "something went wrong")

	cases := map[string]struct {
		save    escrowd.Decorator // decorator at savepoint
		handler escrowd.Handler
		check   bool // whether to call Check or Deliver
		isError bool // true iff we expect errors

		written [][]byte // keys to find
		missing [][]byte // keys not to find
	}{
		"savepoint disabled, returns error, both written": {
			save:    NewSavepoint(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			check:   true,
			isError: true,
			written: [][]byte{ok, nk},
		},
		"savepoint on check, returns error, one written": {
			save:    NewSavepoint().OnCheck(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			check:   true,
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint on deliver, returns error, one written": {
			save:    NewSavepoint().OnDeliver(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation maintains both behaviors": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint on check does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			isError: true,
			written: [][]byte{ok, nk},
		},
		"no rollback when success returned": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv},
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, tc.handler)
			}

			if tc.isError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%x", k)
			}
		})
	}
}

// TestSavepointNonCacheable makes sure a store without cache support is
// passed through untouched.
func TestSavepointNonCacheable(t *testing.T) {
	kv := store.EmptyKVStore{}
	h := &weavetest.Handler{DeliverErr: fmt.Errorf("fail")}
	_, err := NewSavepoint().OnDeliver().Deliver(context.Background(), kv, nil, h)
	assert.Error(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}
