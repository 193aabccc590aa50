/*
Package sigs authenticates transactions by their ed25519 signatures.

Every signer carries a nonce that must match the signature sequence, which
stops a signed release or refund from being replayed.
*/
package sigs

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Decorator verifies the signatures of a SignedTx and exposes the signers'
// conditions to the handlers further down the chain.
type Decorator struct {
	allowMissingSigs bool
}

var _ escrowd.Decorator = Decorator{}

// NewDecorator returns a decorator that rejects a SignedTx without any
// signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a copy of the decorator that lets a SignedTx with
// no signatures pass with an empty signer set.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

func (d Decorator) Check(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

func (d Decorator) Deliver(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

// authenticate bumps the nonce of every signer, or of none when any
// signature is rejected. A transaction that is not a
// SignedTx passes through with no signers.
func (d Decorator) authenticate(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx) (escrowd.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}
	signers, err := verifyAll(store, stx, escrowd.GetChainID(ctx))
	switch {
	case err != nil:
		return nil, errors.Wrap(err, "cannot verify signatures")
	case len(signers) == 0 && !d.allowMissingSigs:
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	escrowd.GetLogger(ctx).Debug("signatures verified", "signers", len(signers))
	return withSigners(ctx, signers), nil
}

// verifyAll runs the verification in a cache when the store supports it, so
// that a rejected signature does not leave the nonces of earlier signers
// bumped.
func verifyAll(db escrowd.KVStore, tx SignedTx, chainID string) ([]escrowd.Condition, error) {
	cdb, ok := db.(escrowd.CacheableKVStore)
	if !ok {
		return VerifyTxSignatures(db, tx, chainID)
	}
	cache := cdb.CacheWrap()
	signers, err := VerifyTxSignatures(cache, tx, chainID)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "save nonces")
	}
	return signers, nil
}
