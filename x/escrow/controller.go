package escrow

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x"
)

// Controller implements the escrow lifecycle. All state changing operations
// authorize the acting party using the provided authenticator.
type Controller struct {
	auth  x.Authenticator
	store *Store
}

// NewController returns a controller that persists escrows in the default
// store.
func NewController(auth x.Authenticator) *Controller {
	return &Controller{auth: auth, store: NewStore()}
}

// Store returns the store used by this controller.
func (c *Controller) Store() *Store {
	return c.store
}

// Create registers a new active escrow and returns its id. The buyer must
// have authorized the transaction. No id is consumed when authorization fails.
func (c *Controller) Create(ctx escrowd.Context, db escrowd.KVStore, buyer, seller escrowd.Address, amount int64) (uint64, error) {
	if err := c.CheckCreate(ctx, buyer); err != nil {
		return 0, err
	}
	now, err := escrowd.BlockTime(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "block time")
	}

	id, err := c.store.NextID(db)
	if err != nil {
		return 0, err
	}
	e := &Escrow{
		EscrowID:  id,
		Buyer:     buyer,
		Seller:    seller,
		Amount:    amount,
		IsActive:  true,
		CreatedAt: escrowd.AsUnixTime(now),
	}
	if err := c.store.Put(db, e); err != nil {
		return 0, errors.Wrap(err, "save escrow")
	}
	if err := c.store.ExtendTTL(ctx, db, KeyEscrow(id), KeyCounter()); err != nil {
		return 0, err
	}

	escrowd.GetLogger(ctx).Info("escrow created",
		"id", id, "buyer", buyer, "seller", seller, "amount", amount)
	return id, nil
}

// Release marks an active escrow as paid out to the seller. Only the stored
// buyer can release.
func (c *Controller) Release(ctx escrowd.Context, db escrowd.KVStore, id uint64) error {
	e, err := c.CheckRelease(ctx, db, id)
	if err != nil {
		return err
	}

	e.IsActive = false
	e.IsReleased = true
	if err := c.store.Put(db, e); err != nil {
		return errors.Wrap(err, "save escrow")
	}
	if err := c.store.ExtendTTL(ctx, db, KeyEscrow(id), KeyCounter()); err != nil {
		return err
	}

	escrowd.GetLogger(ctx).Info("escrow released",
		"id", id, "seller", e.Seller, "amount", e.Amount)
	return nil
}

// Refund marks an active escrow as returned to the buyer. The caller must
// have authorized the transaction and be either the buyer or the seller.
func (c *Controller) Refund(ctx escrowd.Context, db escrowd.KVStore, id uint64, caller escrowd.Address) error {
	e, err := c.CheckRefund(ctx, db, id, caller)
	if err != nil {
		return err
	}

	e.IsActive = false
	e.IsRefunded = true
	if err := c.store.Put(db, e); err != nil {
		return errors.Wrap(err, "save escrow")
	}
	if err := c.store.ExtendTTL(ctx, db, KeyEscrow(id), KeyCounter()); err != nil {
		return err
	}

	escrowd.GetLogger(ctx).Info("escrow refunded",
		"id", id, "caller", caller, "buyer", e.Buyer, "amount", e.Amount)
	return nil
}

// CheckCreate returns an error if an escrow for given buyer cannot be created
// in the current context.
func (c *Controller) CheckCreate(ctx escrowd.Context, buyer escrowd.Address) error {
	return requireAuth(ctx, c.auth, buyer, "buyer")
}

// CheckRelease runs all release preconditions without writing and returns
// the loaded escrow.
func (c *Controller) CheckRelease(ctx escrowd.Context, db escrowd.ReadOnlyKVStore, id uint64) (*Escrow, error) {
	e, err := c.store.Get(db, id)
	if err != nil {
		return nil, err
	}
	if err := requireAuth(ctx, c.auth, e.Buyer, "buyer"); err != nil {
		return nil, err
	}
	if e.State() != StateActive {
		return nil, errors.Wrapf(errors.ErrInvalidState, "escrow is %s", e.State())
	}
	return e, nil
}

// CheckRefund runs all refund preconditions without writing and returns the
// loaded escrow.
func (c *Controller) CheckRefund(ctx escrowd.Context, db escrowd.ReadOnlyKVStore, id uint64, caller escrowd.Address) (*Escrow, error) {
	e, err := c.store.Get(db, id)
	if err != nil {
		return nil, err
	}
	if err := requireAuth(ctx, c.auth, caller, "caller"); err != nil {
		return nil, err
	}
	if !caller.Equals(e.Buyer) && !caller.Equals(e.Seller) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "caller is not a party of the escrow")
	}
	if e.State() != StateActive {
		return nil, errors.Wrapf(errors.ErrInvalidState, "escrow is %s", e.State())
	}
	return e, nil
}

// View returns the current state of an escrow. It never writes.
func (c *Controller) View(db escrowd.ReadOnlyKVStore, id uint64) (*Escrow, error) {
	return c.store.Get(db, id)
}

// requireAuth fails with ErrUnauthorized unless the context carries a
// verified signature of given address.
func requireAuth(ctx escrowd.Context, auth x.Authenticator, addr escrowd.Address, role string) error {
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature required", role)
	}
	return nil
}
