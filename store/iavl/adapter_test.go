package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/escrowd/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeBase exposes the working tree through a cache layer, because the
// commit store accepts writes only from a cache.
func makeBase() (store.CacheableKVStore, func()) {
	s := MockCommitStore()
	return s.CacheWrap(), func() { s.Close() }
}

func TestCacheGetSet(t *testing.T) {
	store.NewTestSuite(makeBase).GetSet(t)
}

func TestCacheConflicts(t *testing.T) {
	store.NewTestSuite(makeBase).CacheConflicts(t)
}

func TestCacheNested(t *testing.T) {
	store.NewTestSuite(makeBase).NestedCaches(t)
}

func TestCommitVersions(t *testing.T) {
	s := MockCommitStore()
	defer s.Close()
	require.NoError(t, s.LoadLatestVersion())

	id, err := s.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), id.Version)

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("esc:1"), []byte("active")))
	require.NoError(t, cache.Write())

	// written to the working tree, not yet committed
	has, err := s.Has([]byte("esc:1"))
	require.NoError(t, err)
	assert.False(t, has)
	has, err = s.CacheWrap().Has([]byte("esc:1"))
	require.NoError(t, err)
	assert.True(t, has)

	first, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.NotEmpty(t, first.Hash)

	val, err := s.Get([]byte("esc:1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("active"), val)

	cache = s.CacheWrap()
	require.NoError(t, cache.Set([]byte("esc:1"), []byte("released")))
	require.NoError(t, cache.Write())
	second, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)

	latest, err := s.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, second, latest)

	// versions beyond the kept history are pruned, the latest stays readable
	third, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.Version)
	val, err = s.Get([]byte("esc:1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("released"), val)
}

func TestCommitStorePersistence(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrowd-iavl")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("esc:1"), []byte("active")))
	require.NoError(t, cache.Set([]byte("esc:2"), []byte("active")))
	require.NoError(t, cache.Delete([]byte("esc:2")))
	require.NoError(t, cache.Write())
	committed, err := s.Commit()
	require.NoError(t, err)

	// uncommitted changes are lost on close
	cache = s.CacheWrap()
	require.NoError(t, cache.Set([]byte("esc:3"), []byte("active")))
	require.NoError(t, cache.Write())
	require.NoError(t, s.Close())

	s, err = NewCommitStore(dir, "state")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.LoadLatestVersion())

	id, err := s.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, committed, id)

	val, err := s.Get([]byte("esc:1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("active"), val)
	for _, key := range []string{"esc:2", "esc:3"} {
		has, err := s.CacheWrap().Has([]byte(key))
		require.NoError(t, err)
		assert.False(t, has, key)
	}
}

func TestFailedBatchRestoresWorkingTree(t *testing.T) {
	s := MockCommitStore()
	defer s.Close()
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("esc:1"), []byte("active")))
	require.NoError(t, cache.Write())
	_, err := s.Commit()
	require.NoError(t, err)

	batch := adapter{tree: s.tree}.NewBatch()
	require.NoError(t, batch.Set([]byte("esc:1"), []byte("released")))
	require.NoError(t, batch.Set(nil, []byte("broken")))
	assert.Error(t, batch.Write())

	val, err := s.CacheWrap().Get([]byte("esc:1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("active"), val)
}
