package app

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Application bookkeeping lives under the _wv: prefix, apart from escrows.
const chainIDKey = "_wv:chainID"

// genesisVersion is the store version holding the genesis state. The state
// after block h is saved as version genesisVersion + h.
const genesisVersion = 1

// CommitStore keeps two independent cache layers over the committed state.
// Deliver collects the writes of the block being executed and check is a
// scratch space for validating transactions before they are delivered.
type CommitStore struct {
	committed escrowd.CommitKVStore
	deliver   escrowd.KVCacheWrap
	check     escrowd.KVCacheWrap
}

// NewCommitStore loads the latest version of the store and sets up the
// deliver and check caches over it.
func NewCommitStore(store escrowd.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the version and the root hash of the committed state.
func (cs *CommitStore) CommitInfo() (escrowd.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Height returns the height of the last committed block. It is zero until
// the first block following genesis is committed.
func (cs *CommitStore) Height() (int64, error) {
	id, err := cs.CommitInfo()
	if err != nil {
		return 0, errors.Wrap(err, "latest version")
	}
	return versionHeight(id.Version), nil
}

// Commit flushes deliver to the underlying store and saves it as a new
// version. It then regenerates new deliver and check caches.
func (cs *CommitStore) Commit() (escrowd.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		cs.Rollback()
		return escrowd.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	cs.reset()
	if err != nil {
		return escrowd.CommitID{}, errors.Wrap(err, "commit")
	}
	return id, nil
}

// Rollback drops all uncommitted changes.
func (cs *CommitStore) Rollback() {
	cs.deliver.Discard()
	cs.check.Discard()
	cs.reset()
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CheckStore is the store transactions are validated against.
func (cs *CommitStore) CheckStore() escrowd.CacheableKVStore {
	return cs.check
}

// DeliverStore is the store transactions are executed against.
func (cs *CommitStore) DeliverStore() escrowd.CacheableKVStore {
	return cs.deliver
}

// ReadStore returns a view of the committed state.
func (cs *CommitStore) ReadStore() escrowd.ReadOnlyKVStore {
	return cs.committed
}

func versionHeight(version int64) int64 {
	if version < genesisVersion {
		return 0
	}
	return version - genesisVersion
}

// loadChainID returns the stored chain id or an empty string.
func loadChainID(kv escrowd.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID persists the chain id once. A second call is rejected.
func saveChainID(kv escrowd.KVStore, chainID string) error {
	if !escrowd.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
