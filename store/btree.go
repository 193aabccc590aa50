package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/escrowd/errors"
)

// MemStore returns an in-memory store with no persistence. Tests use it in
// place of the iavl backend.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap keeps all pending changes in a btree in front of a read
// only store. Reads check the btree first. Writes are recorded in the btree
// and in the batch, and only the batch can push them to the underlying
// storage.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap creates a cache over kv that writes through batch.
// free may be nil. Nested caches share the parent's free list.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap returns a savepoint on top of this cache. Writing it only
// updates this cache, never the storage below.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the batch to the wrapped store and drops the cached entries.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached entries together with the pending batch. A
// discarded cache may be reused and starts out empty.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
	if r, ok := b.batch.(resetter); ok {
		r.Reset()
	}
}

// resetter is implemented by batches that can drop their recorded
// operations.
type resetter interface {
	Reset()
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, ok, err := b.cached(key)
	switch {
	case err != nil:
		return nil, err
	case !ok:
		return b.back.Get(key)
	case e.deleted:
		return nil, nil
	}
	return e.value, nil
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, ok, err := b.cached(key)
	switch {
	case err != nil:
		return false, err
	case !ok:
		return b.back.Has(key)
	}
	return !e.deleted, nil
}

// cached returns the pending change for key, if any.
func (b BTreeCacheWrap) cached(key []byte) (entry, bool, error) {
	item := b.bt.Get(entry{key: key})
	if item == nil {
		return entry{}, false, nil
	}
	e, ok := item.(entry)
	if !ok {
		return entry{}, false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
	}
	return e, true, nil
}

// entry is a pending change. A deleted entry hides the key in the wrapped
// store.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
