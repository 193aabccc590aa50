package sigs

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing.
// Any address can contain a nonce. In practice you always want to acquire a
// nonce for the signer. You can get the signers address by calling
//   address := <crypto.Signer>.PublicKey().Address()
func NextNonce(db escrowd.ReadOnlyKVStore, signer escrowd.Address) (int64, error) {
	u, err := GetUser(db, signer)
	switch {
	case err == nil:
		return u.Sequence, nil
	case errors.ErrNotFound.Is(err):
		// If not yet present, nonce counting starts with zero.
		return 0, nil
	default:
		return 0, errors.Wrap(err, "load user")
	}
}
