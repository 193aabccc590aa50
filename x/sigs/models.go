package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd/crypto"
)

// UserData is the state of a signer account. It is created with the first
// signature of a given public key.
type UserData struct {
	Pubkey *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	// Sequence is the nonce expected in the next signature.
	Sequence int64 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (m *UserData) Reset()         { *m = UserData{} }
func (m *UserData) String() string { return proto.CompactTextString(m) }
func (*UserData) ProtoMessage()    {}

// StdSignature is a signature attached to a transaction, together with all
// the information required to verify it.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,3,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *StdSignature) Reset()         { *m = StdSignature{} }
func (m *StdSignature) String() string { return proto.CompactTextString(m) }
func (*StdSignature) ProtoMessage()    {}

// GetSequence returns the nonce, nil safe.
func (m *StdSignature) GetSequence() int64 {
	if m != nil {
		return m.Sequence
	}
	return 0
}
