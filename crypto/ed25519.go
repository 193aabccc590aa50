package crypto

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var _ Signer = (*PrivateKey)(nil)

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if len(p.GetEd25519()) != ed25519.PublicKeySize {
		return false
	}
	if len(sig.GetEd25519()) != ed25519.SignatureSize {
		return false
	}
	publicKey := ed25519.PublicKey(p.Ed25519)
	return ed25519.Verify(publicKey, message, sig.Ed25519)
}

// Condition encodes the public key into a condition. Empty key results in a
// nil condition.
func (p *PublicKey) Condition() escrowd.Condition {
	if len(p.GetEd25519()) == 0 {
		return nil
	}
	return escrowd.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address of the signer owning this key.
func (p *PublicKey) Address() escrowd.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.GetEd25519()) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid private key")
	}
	privateKey := ed25519.PrivateKey(p.Ed25519)
	return &Signature{Ed25519: ed25519.Sign(privateKey, message)}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	if len(p.GetEd25519()) != ed25519.PrivateKeySize {
		return &PublicKey{}
	}
	privateKey := ed25519.PrivateKey(p.Ed25519)
	pub := privateKey.Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{Ed25519: priv}
}
