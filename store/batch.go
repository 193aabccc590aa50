package store

import (
	"github.com/iov-one/escrowd/errors"
)

// EmptyKVStore holds nothing and ignores writes. MemStore caches on top of
// it.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has(key []byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error    { return nil }
func (EmptyKVStore) Delete(key []byte) error        { return nil }

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// Op is a recorded Set or Delete.
type Op struct {
	del   bool
	key   []byte
	value []byte
}

// SetOp records a Set.
func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

// DelOp records a Delete.
func DelOp(key []byte) Op {
	return Op{del: true, key: key}
}

// Apply replays the operation on out.
func (o Op) Apply(out SetDeleter) error {
	if o.key == nil {
		return errors.Wrap(errors.ErrDatabase, "operation without a key")
	}
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch records operations and replays them one by one on Write.
// A failure in the middle leaves earlier operations applied, so use it only
// in front of in-memory stores or a working iavl tree, that is only
// persisted on commit.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Reset drops all recorded operations.
func (b *NonAtomicBatch) Reset() {
	b.ops = nil
}

// Write replays all operations in order and empties the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}
