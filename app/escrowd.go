package app

import (
	"context"
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/x"
	"github.com/iov-one/escrowd/x/escrow"
	"github.com/iov-one/escrowd/x/sigs"
	"github.com/iov-one/escrowd/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is the application name used in logs.
const Name = "escrowd"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() Decorators {
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, a failing message keeps only the nonces consumed
		// by sigs
		utils.NewSavepoint().OnDeliver(),
	)
}

// EscrowRouter returns a router dispatching all escrow messages.
func EscrowRouter(authFn x.Authenticator) *Router {
	r := NewRouter()
	escrow.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a query router serving "/escrows" and "/auth".
func QueryRouter() escrowd.QueryRouter {
	r := escrowd.NewQueryRouter()
	r.RegisterAll(
		escrow.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Initializers returns all genesis initializers.
func Initializers() escrowd.Initializer {
	return ChainInitializers(
		&escrow.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into NewApplication.
func Stack() escrowd.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(EscrowRouter(authFn))
}

// NewEscrowApplication constructs the escrow application over given store.
// If clock is nil, the wall clock is used for block time.
func NewEscrowApplication(db escrowd.CommitKVStore, logger log.Logger, clock func() time.Time, debug bool) (*Application, error) {
	if clock == nil {
		clock = time.Now
	}
	store, err := NewStoreApp(Name, db, QueryRouter(), context.Background())
	if err != nil {
		return nil, err
	}
	store = store.WithInit(Initializers()).WithLogger(logger)
	return NewApplication(store, Decoder, Stack(), clock, debug), nil
}
