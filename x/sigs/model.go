package sigs

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// ErrInvalidSequence is returned when a signature nonce does not match the
// account state.
var ErrInvalidSequence = errors.Register(120, "invalid sequence")

var users = orm.NewModelBucket(BucketName)

func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if u.Sequence > 0 && u.Pubkey == nil {
		return errors.Wrap(ErrInvalidSequence, "needs Pubkey")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	next := u.Sequence + 1

	// The greatest nonce value a javascript client can represent.
	const maxSequenceValue = (1 << 53) - 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// SetPubkey will try to set the Pubkey or panic on an illegal operation.
// It is illegal to reset an already set key.
func (u *UserData) SetPubkey(pubkey *crypto.PublicKey) {
	if u.Pubkey != nil {
		panic("Cannot change pubkey for a user")
	}
	u.Pubkey = pubkey
}

// GetUser loads the account of given address. ErrNotFound is returned if the
// address never signed a transaction.
func GetUser(db escrowd.ReadOnlyKVStore, addr escrowd.Address) (*UserData, error) {
	var u UserData
	if err := users.One(db, addr, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// getOrCreateUser loads the account of the public key owner, or returns a
// new account if it does not exist yet.
func getOrCreateUser(db escrowd.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	u, err := GetUser(db, pubkey.Address())
	switch {
	case err == nil:
		return u, nil
	case errors.ErrNotFound.Is(err):
		u := &UserData{}
		u.SetPubkey(pubkey)
		return u, nil
	default:
		return nil, err
	}
}

func saveUser(db escrowd.KVStore, u *UserData) error {
	return users.Put(db, u.Pubkey.Address(), u)
}
