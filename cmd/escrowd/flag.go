package main

import (
	"flag"

	"github.com/iov-one/escrowd"
)

// addressValue implements flag.Value for addresses in any format understood
// by escrowd.ParseAddress.
type addressValue struct {
	addr escrowd.Address
}

func (v *addressValue) String() string {
	if v == nil || len(v.addr) == 0 {
		return ""
	}
	return v.addr.String()
}

func (v *addressValue) Set(raw string) error {
	a, err := escrowd.ParseAddress(raw)
	if err != nil {
		return err
	}
	v.addr = a
	return nil
}

// flAddress returns an address that is set if provided as a command line
// argument. Unset flag results in a nil address.
func flAddress(fl *flag.FlagSet, name, usage string) *addressValue {
	var v addressValue
	fl.Var(&v, name, usage)
	return &v
}
