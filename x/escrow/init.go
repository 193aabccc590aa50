package escrow

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/gconf"
)

// Initializer fulfils the Initializer interface to load data from the genesis file
type Initializer struct{}

var _ escrowd.Initializer = (*Initializer)(nil)

// FromGenesis stores the escrow configuration if present and creates all
// escrows declared under the "escrow" key. Genesis escrows get sequential ids
// in the order they are declared.
func (*Initializer) FromGenesis(opts escrowd.Options, db escrowd.KVStore) error {
	var conf Configuration
	switch err := gconf.InitConfig(db, opts, ConfigurationName, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
	default:
		return errors.Wrap(err, "init configuration")
	}

	var escrows []struct {
		Buyer     escrowd.Address  `json:"buyer"`
		Seller    escrowd.Address  `json:"seller"`
		Amount    int64            `json:"amount"`
		State     string           `json:"state"`
		CreatedAt escrowd.UnixTime `json:"created_at"`
	}
	if err := opts.ReadOptions("escrow", &escrows); err != nil {
		return err
	}

	s := NewStore()
	for i, g := range escrows {
		id, err := s.NextID(db)
		if err != nil {
			return err
		}
		e := Escrow{
			EscrowID:  id,
			Buyer:     g.Buyer,
			Seller:    g.Seller,
			Amount:    g.Amount,
			CreatedAt: g.CreatedAt,
		}
		switch g.State {
		case "", "active":
			e.IsActive = true
		case "released":
			e.IsReleased = true
		case "refunded":
			e.IsRefunded = true
		default:
			return errors.Wrapf(errors.ErrInput, "escrow #%d: unknown state %q", i, g.State)
		}
		if err := s.Put(db, &e); err != nil {
			return errors.Wrapf(err, "escrow #%d", i)
		}
		if err := s.extendAt(db, 0, KeyEscrow(id), KeyCounter()); err != nil {
			return err
		}
	}
	return nil
}
