package escrow

import (
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/weavetest"
)

func TestEscrowValidate(t *testing.T) {
	buyer := weavetest.RandomAddr(t)
	seller := weavetest.RandomAddr(t)

	cases := map[string]struct {
		Escrow    Escrow
		WantErr   *errors.Error
		WantState State
	}{
		"active": {
			Escrow:    Escrow{EscrowID: 1, Buyer: buyer, Seller: seller, Amount: 1, IsActive: true},
			WantState: StateActive,
		},
		"released": {
			Escrow:    Escrow{EscrowID: 1, Buyer: buyer, Seller: seller, IsReleased: true},
			WantState: StateReleased,
		},
		"refunded": {
			Escrow:    Escrow{EscrowID: 1, Buyer: buyer, Seller: seller, IsRefunded: true},
			WantState: StateRefunded,
		},
		"no flag": {
			Escrow:    Escrow{EscrowID: 1, Buyer: buyer, Seller: seller},
			WantErr:   errors.ErrInvalidState,
			WantState: StateInvalid,
		},
		"two flags": {
			Escrow:    Escrow{EscrowID: 1, Buyer: buyer, Seller: seller, IsActive: true, IsReleased: true},
			WantErr:   errors.ErrInvalidState,
			WantState: StateInvalid,
		},
		"missing id": {
			Escrow:    Escrow{Buyer: buyer, Seller: seller, IsActive: true},
			WantErr:   errors.ErrModel,
			WantState: StateActive,
		},
		"invalid buyer": {
			Escrow:    Escrow{EscrowID: 1, Buyer: escrowd.Address("short"), Seller: seller, IsActive: true},
			WantErr:   errors.ErrInput,
			WantState: StateActive,
		},
		"missing seller": {
			Escrow:    Escrow{EscrowID: 1, Buyer: buyer, IsActive: true},
			WantErr:   errors.ErrInput,
			WantState: StateActive,
		},
		"negative created at": {
			Escrow:    Escrow{EscrowID: 1, Buyer: buyer, Seller: seller, IsActive: true, CreatedAt: -1},
			WantErr:   errors.ErrInvalidState,
			WantState: StateActive,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.Escrow.Validate(); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected validation error: %s", err)
			}
			if got := tc.Escrow.State(); got != tc.WantState {
				t.Fatalf("want %s state, got %s", tc.WantState, got)
			}
		})
	}
}

func TestConfigurationValidate(t *testing.T) {
	def := DefaultConfiguration()
	if err := def.Validate(); err != nil {
		t.Fatalf("default configuration is invalid: %s", err)
	}
	if err := (&Configuration{TTLThreshold: 10}).Validate(); !errors.ErrModel.Is(err) {
		t.Fatalf("want model error, got %v", err)
	}
	if err := (&Configuration{TTLThreshold: 10, TTLExtendTo: 5}).Validate(); !errors.ErrModel.Is(err) {
		t.Fatalf("want model error, got %v", err)
	}
}
