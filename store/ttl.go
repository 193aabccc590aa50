package store

import (
	"encoding/binary"

	"github.com/iov-one/escrowd/errors"
)

// ttlPrefix is prepended to a key to build the key of its lifetime record.
const ttlPrefix = "_ttl:"

func ttlKey(key []byte) []byte {
	return append([]byte(ttlPrefix), key...)
}

// LiveUntil returns the last block height at which given key is guaranteed
// to be kept by the storage. Zero is returned if the lifetime of the key was
// never extended.
func LiveUntil(db ReadOnlyKVStore, key []byte) (int64, error) {
	raw, err := db.Get(ttlKey(key))
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrDatabase, "invalid lifetime record for %q", key)
	}
	return int64(binary.BigEndian.Uint64(raw)), nil
}

// ExtendTTL declares that the key must be kept alive for longer. If the
// remaining lifetime of the key at given height is below the threshold, the
// lifetime is extended to height + extendTo blocks. A lifetime is never
// shortened.
//
// Expiration itself is a concern of the storage engine. This function only
// maintains the lifetime record.
func ExtendTTL(db KVStore, key []byte, height int64, threshold, extendTo uint32) error {
	if height < 0 {
		return errors.Wrapf(errors.ErrInput, "negative height %d", height)
	}
	liveUntil, err := LiveUntil(db, key)
	if err != nil {
		return err
	}
	if liveUntil-height >= int64(threshold) {
		return nil
	}
	target := height + int64(extendTo)
	if target <= liveUntil {
		return nil
	}
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(target))
	return db.Set(ttlKey(key), raw)
}
