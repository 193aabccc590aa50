package escrowd

//////////////////////////////////////////////////////////
// Defines all public interfaces for interacting with stores
//
// KVStore is the basic object to use in all code. Range queries are not
// part of the contract, every record is addressed by its full key.

// ReadOnlyKVStore is a simple interface to query data.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)
}

// SetDeleter is a minimal interface for writing,
// Unifying KVStore and Batch
type SetDeleter interface {
	Set(key, value []byte) error // CONTRACT: key, value readonly []byte
	Delete(key []byte) error     // CONTRACT: key readonly []byte
}

// KVStore is a simple interface to get/set data
//
// For simplicity, we require all backing stores to implement this
// interface. They *may* implement other methods as well, but
// at least these are required.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	// NewBatch returns a batch that can write multiple ops atomically
	NewBatch() Batch
}

// Batch can write multiple ops atomically to an underlying KVStore
type Batch interface {
	SetDeleter
	Write() error
}

///////////////////////////////////////////////////////////
// Caching conditional execution
//
// These extend KVStore to allow grouping temporary writes
// which may be committed/discarded together.
// Like Postgresql SAVEPOINT / ROLLBACK TO SAVEPOINT

// CacheableKVStore is a KVStore that supports CacheWrapping
//
// CacheWrap() should not return a Committer, since Commit() on
// cache-wraps make no sense.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap allows us to maintain a scratch-pad of uncommitted data
// that we can view with all queries.
//
// At the end, call Write to use the cached data, or Discard to drop it.
type KVCacheWrap interface {
	// CacheableKVStore allows us to use this Cache recursively
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this CacheWrap and releases all data
	Discard()
}

// CommitKVStore is a store that persists its state in numbered versions.
// All writes go through a CacheWrap, and become durable only when a new
// version is committed.
type CommitKVStore interface {
	// Get and Has read the last committed version.
	ReadOnlyKVStore

	// CacheWrap returns a scratch-pad over the working state. Writing
	// it updates the working state, which is persisted by Commit.
	CacheWrap() KVCacheWrap

	// Commit persists the working state as the next version.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest persisted version. After a
	// crash in the middle of a commit this is the last complete one.
	LoadLatestVersion() error

	// LatestVersion returns the latest persisted version.
	LatestVersion() (CommitID, error)

	// Close releases all resources held by the store.
	Close() error
}

// CommitID identifies a committed version by its number and its merkle
// root hash.
type CommitID struct {
	Version int64
	Hash    []byte
}
