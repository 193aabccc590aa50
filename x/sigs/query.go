package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// RegisterQuery will register the signer accounts as "/auth"
func RegisterQuery(qr escrowd.QueryRouter) {
	qr.Register("/auth", userQuery{})
}

// userQuery returns the account of the address given as query data.
type userQuery struct{}

func (userQuery) Query(db escrowd.ReadOnlyKVStore, data []byte) ([]escrowd.Model, error) {
	addr := escrowd.Address(data)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	u, err := GetUser(db, addr)
	if errors.ErrNotFound.Is(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	raw, err := proto.Marshal(u)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return []escrowd.Model{escrowd.Pair(addr, raw)}, nil
}
