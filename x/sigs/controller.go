package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
)

// SignCodeV1 prefixes every signed digest.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures verifies every signature of tx and bumps the nonce of
// each signer. It returns the signer conditions in signature order, possibly
// none. A single bad signature fails the whole transaction.
func VerifyTxSignatures(db escrowd.KVStore, tx SignedTx, chainID string) ([]escrowd.Condition, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	signers := make([]escrowd.Condition, 0, len(sigs))
	for i, sig := range sigs {
		signer, err := VerifySignature(db, sig, raw, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks a single signature over raw transaction bytes. The
// signature must use the signer's next nonce. On success the nonce is
// incremented and stored.
func VerifySignature(db escrowd.KVStore, sig *StdSignature, raw []byte, chainID string) (escrowd.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	user, err := getOrCreateUser(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(raw, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := saveUser(db, user); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes returns the digest that is signed for a transaction:
//
//   sha512(SignCodeV1 | uint8 len(chainID) | chainID | int64 nonce | raw)
//
// The nonce is big endian. Binding chain id and nonce into the digest stops
// a signature from being replayed on another chain or a second time.
func BuildSignBytes(raw []byte, chainID string, nonce int64) ([]byte, error) {
	if nonce < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !escrowd.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	h := sha512.New()
	h.Write(SignCodeV1)
	h.Write([]byte{uint8(len(chainID))})
	h.Write([]byte(chainID))
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(nonce))
	h.Write(n[:])
	h.Write(raw)
	return h.Sum(nil), nil
}

// SignTx signs tx for given chain with the signer's nonce.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, nonce int64) (*StdSignature, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(raw, chainID, nonce)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  nonce,
	}, nil
}
