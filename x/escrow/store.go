package escrow

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/gconf"
	"github.com/iov-one/escrowd/orm"
	"github.com/iov-one/escrowd/store"
)

const (
	// BucketName is the prefix of all escrow records.
	BucketName = "esc"

	// ConfigurationName is the gconf package name of the escrow configuration.
	ConfigurationName = "escrow"
)

type keyKind int

const (
	keyEscrow keyKind = iota + 1
	keyCounter
)

// Key addresses one of the records owned by the escrow extension. It is
// either a single escrow record or the escrow id counter.
type Key struct {
	kind keyKind
	id   uint64
}

// KeyEscrow returns the key of the escrow record with given id.
func KeyEscrow(id uint64) Key {
	return Key{kind: keyEscrow, id: id}
}

// KeyCounter returns the key of the escrow id counter.
func KeyCounter() Key {
	return Key{kind: keyCounter}
}

// Store persists escrows and the id counter.
type Store struct {
	bucket orm.ModelBucket
	seq    orm.Sequence
}

// NewStore returns a store keeping escrows under the "esc:" prefix.
func NewStore() *Store {
	return &Store{
		bucket: orm.NewModelBucket(BucketName),
		seq:    orm.NewSequence("escrow", "id"),
	}
}

// NextID allocates a new escrow id. The first allocated id is 1 and every
// following call returns the previous value incremented by one.
func (s *Store) NextID(db escrowd.KVStore) (uint64, error) {
	id, err := s.seq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "next escrow id")
	}
	return id, nil
}

// LastID returns the most recently allocated id or zero.
func (s *Store) LastID(db escrowd.ReadOnlyKVStore) (uint64, error) {
	return s.seq.Latest(db)
}

// Get returns the escrow with given id. ErrNotFound is returned if it does
// not exist.
func (s *Store) Get(db escrowd.ReadOnlyKVStore, id uint64) (*Escrow, error) {
	var e Escrow
	if err := s.bucket.One(db, orm.EncodeSequence(id), &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %d", id)
	}
	return &e, nil
}

// Put writes the escrow under its id, replacing any previous version.
func (s *Store) Put(db escrowd.KVStore, e *Escrow) error {
	return s.bucket.Put(db, orm.EncodeSequence(e.EscrowID), e)
}

// DBKey returns the raw database key of given record key.
func (s *Store) DBKey(k Key) []byte {
	switch k.kind {
	case keyCounter:
		return s.seq.Key()
	case keyEscrow:
		return s.bucket.DBKey(orm.EncodeSequence(k.id))
	default:
		panic("unknown escrow key")
	}
}

// Configuration returns the stored configuration, or the default one if
// nothing was stored.
func (s *Store) Configuration(db escrowd.ReadOnlyKVStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, ConfigurationName, &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}

// ExtendTTL extends the lifetime of all given records, as measured from the
// current block height.
func (s *Store) ExtendTTL(ctx escrowd.Context, db escrowd.KVStore, keys ...Key) error {
	height, ok := escrowd.GetHeight(ctx)
	if !ok {
		return errors.Wrap(errors.ErrHuman, "block height not present in the context")
	}
	return s.extendAt(db, height, keys...)
}

func (s *Store) extendAt(db escrowd.KVStore, height int64, keys ...Key) error {
	conf, err := s.Configuration(db)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := store.ExtendTTL(db, s.DBKey(k), height, conf.TTLThreshold, conf.TTLExtendTo); err != nil {
			return errors.Wrap(err, "extend ttl")
		}
	}
	return nil
}

// LiveUntil returns the height up to which given record is kept alive.
func (s *Store) LiveUntil(db escrowd.ReadOnlyKVStore, k Key) (int64, error) {
	return store.LiveUntil(db, s.DBKey(k))
}
