package orm

import (
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	proto.Message
	Validate() error
}

// ModelBucket provides access to models of a single kind, stored under a
// common key prefix.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db escrowd.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists and
	// ErrNotFound otherwise.
	Has(db escrowd.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Model is validated before
	// storing.
	Put(db escrowd.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db escrowd.KVStore, key []byte) error

	// DBKey returns the full database key used to store an entity with
	// given primary key.
	DBKey(key []byte) []byte

	// Sequence returns a sequence bound to this bucket.
	Sequence(name string) Sequence
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// NewModelBucket returns a ModelBucket instance storing all entities under
// the "<name>:" prefix. Name must be 3 to 10 lower case letters.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	return &modelBucket{
		name:   name,
		prefix: []byte(name + ":"),
	}
}

type modelBucket struct {
	name   string
	prefix []byte
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) DBKey(key []byte) []byte {
	return append(append([]byte(nil), mb.prefix...), key...)
}

func (mb *modelBucket) Sequence(name string) Sequence {
	return NewSequence(mb.name, name)
}

func (mb *modelBucket) One(db escrowd.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot deserialize %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db escrowd.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) Put(db escrowd.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := proto.Marshal(m)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot serialize %T: %s", m, err)
	}
	if err := db.Set(mb.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db escrowd.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return db.Delete(mb.DBKey(key))
}
