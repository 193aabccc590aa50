package orm

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Sequence is a persistent uint64 counter. Values handed out are strictly
// increasing both as integers and, encoded, in byte order, so they can be
// used directly as ordered database keys.
type Sequence struct {
	id []byte
}

// NewSequence returns the counter stored under "_s.<bucket>:<name>".
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// Key returns the database key under which the sequence state is stored.
func (s Sequence) Key() []byte {
	return s.id
}

// NextVal advances the counter and returns the new value encoded.
func (s *Sequence) NextVal(db escrowd.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db, 1)
	return bz, err
}

// NextInt advances the counter and returns the new value. A fresh counter
// yields 1.
func (s *Sequence) NextInt(db escrowd.KVStore) (uint64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the last value handed out, or zero. It never advances the
// counter.
func (s *Sequence) Latest(db escrowd.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw)
}

func (s *Sequence) increment(db escrowd.KVStore, inc uint64) (uint64, []byte, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	if val > math.MaxUint64-inc {
		return 0, nil, errors.Wrapf(errors.ErrOverflow, "sequence %q", s.id)
	}
	val += inc
	raw := EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, err
	}
	return val, raw, nil
}

// DecodeSequence reads a sequence value. Missing value is zero.
func DecodeSequence(bz []byte) (uint64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrapf(errors.ErrDatabase, "invalid sequence value length %d", len(bz))
	}
	return binary.BigEndian.Uint64(bz), nil
}

// EncodeSequence serializes a sequence value into its big endian, fixed size
// representation.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}
