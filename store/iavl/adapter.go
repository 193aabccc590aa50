/*
Package iavl persists the application state in a versioned iavl merkle tree
stored in goleveldb.

Every commit saves the working tree as a new version. Reads from the
CommitStore always see the last saved version, while caches operate on the
working tree.
*/
package iavl

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const (
	// DefaultCacheSize is the number of tree nodes kept in memory.
	DefaultCacheSize = 10000

	// historyToKeep is the number of saved versions kept on disk. Older
	// versions are deleted on commit.
	historyToKeep = 2
)

// CommitStore is a CommitKVStore backed by an iavl tree.
type CommitStore struct {
	tree *iavl.MutableTree
	db   dbm.DB
}

var _ escrowd.CommitKVStore = CommitStore{}

// NewCommitStore opens (or creates) the tree stored in the goleveldb
// database <dir>/<name>.db. Call LoadLatestVersion before use.
func NewCommitStore(dir, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return CommitStore{}, errors.Wrapf(errors.ErrDatabase, "open %s in %q: %s", name, dir, err)
	}
	return CommitStore{tree: iavl.NewMutableTree(db, DefaultCacheSize), db: db}, nil
}

// MockCommitStore returns a store that keeps the tree in memory.
func MockCommitStore() CommitStore {
	db := dbm.NewMemDB()
	return CommitStore{tree: iavl.NewMutableTree(db, DefaultCacheSize), db: db}
}

func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

func (s CommitStore) Has(key []byte) (bool, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val != nil, nil
}

// Commit saves the working tree as the next version and prunes the
// versions that fell out of the kept history.
func (s CommitStore) Commit() (escrowd.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return escrowd.CommitID{}, errors.Wrapf(errors.ErrDatabase, "save version: %s", err)
	}
	if old := version - historyToKeep; old > 0 {
		if err := s.tree.DeleteVersion(old); err != nil {
			return escrowd.CommitID{}, errors.Wrapf(errors.ErrDatabase, "delete version %d: %s", old, err)
		}
	}
	return escrowd.CommitID{Version: version, Hash: hash}, nil
}

func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "load: %s", err)
	}
	return nil
}

func (s CommitStore) LatestVersion() (escrowd.CommitID, error) {
	return escrowd.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap returns a btree cache over the working tree. Writing the cache
// updates the working tree only.
func (s CommitStore) CacheWrap() escrowd.KVCacheWrap {
	a := adapter{tree: s.tree}
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

func (s CommitStore) Close() error {
	s.db.Close()
	return nil
}

// adapter exposes the working tree as a KVStore.
type adapter struct {
	tree *iavl.MutableTree
}

var _ escrowd.KVStore = adapter{}

func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a adapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

func (a adapter) NewBatch() escrowd.Batch {
	return &treeBatch{NonAtomicBatch: store.NewNonAtomicBatch(a), tree: a.tree}
}

// treeBatch replays operations on the working tree. A failed replay
// restores the working tree to the last saved version.
type treeBatch struct {
	*store.NonAtomicBatch
	tree *iavl.MutableTree
}

func (b *treeBatch) Write() error {
	if err := b.NonAtomicBatch.Write(); err != nil {
		b.tree.Rollback()
		return err
	}
	return nil
}
