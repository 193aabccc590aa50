package store

import (
	"testing"

	"github.com/iov-one/escrowd/weavetest/assert"
)

// TestSuite runs the same storage scenarios against any CacheableKVStore
// implementation. Both the btree and the iavl backends use it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh empty store and a function releasing
// it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet walks a store through the life of a transaction: writes land in a
// cache, a written cache updates the base, a discarded one leaves no trace.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	first, active := []byte("esc:1"), []byte("active")
	second, released := []byte("esc:2"), []byte("released")
	counter, one := []byte("_s.escrow:id"), []byte{0, 0, 0, 0, 0, 0, 0, 1}

	s.AssertGetHas(t, base, first, nil, false)
	assert.Nil(t, base.Set(first, active))
	s.AssertGetHas(t, base, first, active, true)

	tx := base.CacheWrap()
	s.AssertGetHas(t, tx, first, active, true)
	assert.Nil(t, tx.Set(second, released))
	s.AssertGetHas(t, tx, second, released, true)
	s.AssertGetHas(t, base, second, nil, false)
	assert.Nil(t, tx.Write())
	s.AssertGetHas(t, base, second, released, true)

	failed := base.CacheWrap()
	assert.Nil(t, failed.Set(counter, one))
	s.AssertGetHas(t, failed, counter, one, true)
	failed.Discard()
	s.AssertGetHas(t, base, counter, nil, false)

	remove := base.CacheWrap()
	assert.Nil(t, remove.Delete(first))
	s.AssertGetHas(t, base, first, active, true)
	assert.Nil(t, remove.Write())
	s.AssertGetHas(t, base, first, nil, false)
	s.AssertGetHas(t, base, second, released, true)
}

// CacheConflicts checks a cache that overwrites and deletes keys of the
// store below it.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	k := func(id string) []byte { return []byte("esc:" + id) }
	v := func(state string) []byte { return []byte(state) }

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Value nil means the key must be missing
		childQueries  []Model
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(k("1"), v("active")), SetOp(k("2"), v("active"))},
			childOps:      []Op{SetOp(k("1"), v("released")), SetOp(k("3"), v("active")), DelOp(k("2"))},
			parentQueries: []Model{Pair(k("1"), v("active")), Pair(k("2"), v("active")), Pair(k("3"), nil)},
			childQueries:  []Model{Pair(k("1"), v("released")), Pair(k("2"), nil), Pair(k("3"), v("active"))},
		},
		"delete and set again": {
			parentOps:     []Op{SetOp(k("4"), v("active"))},
			childOps:      []Op{DelOp(k("4")), SetOp(k("4"), v("refunded"))},
			parentQueries: []Model{Pair(k("4"), v("active"))},
			childQueries:  []Model{Pair(k("4"), v("refunded"))},
		},
		"set and delete": {
			childOps:      []Op{SetOp(k("5"), v("active")), DelOp(k("5"))},
			parentQueries: []Model{Pair(k("5"), nil)},
			childQueries:  []Model{Pair(k("5"), nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// NestedCaches makes sure a savepoint layered over another savepoint is
// discarded without touching the outer one.
func (s *TestSuite) NestedCaches(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	escrow, state := []byte("esc:1"), []byte("active")
	ttl, height := []byte("_ttl:esc:1"), []byte{0, 0, 0, 0, 0, 0, 19, 136}

	outer := base.CacheWrap()
	assert.Nil(t, outer.Set(escrow, state))

	inner := outer.CacheWrap()
	assert.Nil(t, inner.Set(ttl, height))
	s.AssertGetHas(t, inner, escrow, state, true)
	inner.Discard()

	s.AssertGetHas(t, outer, ttl, nil, false)
	assert.Nil(t, outer.Write())
	s.AssertGetHas(t, base, escrow, state, true)
	s.AssertGetHas(t, base, ttl, nil, false)
}

// AssertGetHas checks that Get returns val and Has returns has for key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}
