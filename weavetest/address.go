package weavetest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/escrowd"
)

// ParseAddress takes an address in a human readable format and returns its
// binary representation. Any format understood by escrowd.ParseAddress is
// accepted.
func ParseAddress(t testing.TB, encodedAddress string) escrowd.Address {
	t.Helper()

	addr, err := escrowd.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) escrowd.Address {
	t.Helper()
	raw := make([]byte, escrowd.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return escrowd.Address(raw)
}
