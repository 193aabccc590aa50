// Package app executes transactions against a persistent store, one
// transaction per block, and wires the escrow extension into a complete
// application.
package app

import (
	"sync"
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Result is the outcome of processing a single transaction, in the form
// returned to a client.
type Result struct {
	Code   uint32
	Log    string
	Data   []byte
	Height int64
}

// IsOK returns true if the transaction was processed without an error.
func (r Result) IsOK() bool {
	return r.Code == errors.SuccessCode
}

// Application executes transactions on top of the StoreApp. Every delivered
// transaction is processed as its own block. A failed message leaves no
// writes of its own in that block.
type Application struct {
	*StoreApp
	decoder escrowd.TxDecoder
	handler escrowd.Handler
	clock   func() time.Time
	debug   bool

	// mu serializes all state access.
	mu sync.Mutex
}

// NewApplication constructs an application. The clock provides the block
// time of each delivered transaction.
func NewApplication(
	store *StoreApp,
	decoder escrowd.TxDecoder,
	handler escrowd.Handler,
	clock func() time.Time,
	debug bool,
) *Application {
	return &Application{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		clock:    clock,
		debug:    debug,
	}
}

// InitChain initializes the chain from given genesis.
func (a *Application) InitChain(gen Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.StoreApp.InitChain(gen)
}

// DeliverTx executes the transaction in a new block and commits the result.
// A transaction that cannot be decoded writes nothing.
func (a *Application) DeliverTx(txBytes []byte) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID == "" {
		return a.result(nil, errors.Wrap(errors.ErrHuman, "chain not initialized"))
	}

	a.BeginBlock(a.clock())
	tx, err := a.loadTx(txBytes)
	if err != nil {
		a.Rollback()
		return a.result(nil, err)
	}

	ctx := escrowd.WithLogInfo(a.BlockContext(),
		"call", "deliver_tx",
		"path", escrowd.GetPath(tx))

	// A failing message still commits its block. The delivery savepoint
	// already dropped the message writes, what remains are the consumed
	// signature nonces.
	res, err := a.handler.Deliver(ctx, a.DeliverStore(), tx)
	if cerr := a.Commit(); cerr != nil {
		a.Rollback()
		return a.result(nil, cerr)
	}
	return a.result(res, err)
}

// CheckTx runs the transaction against the check state only. Check state
// is dropped on the next commit.
func (a *Application) CheckTx(txBytes []byte) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.loadTx(txBytes)
	if err != nil {
		return a.result(nil, err)
	}

	ctx := escrowd.WithHeight(a.baseContext, a.height+1)
	ctx = escrowd.WithBlockTime(ctx, a.clock())
	ctx = escrowd.WithLogInfo(ctx,
		"call", "check_tx",
		"path", escrowd.GetPath(tx))

	res, err := a.handler.Check(ctx, a.CheckStore(), tx)
	if err != nil {
		return a.result(nil, err)
	}
	return Result{Data: res.Data, Log: res.Log, Height: a.height}
}

// Query serves reads of the committed state.
func (a *Application) Query(path string, data []byte) ([]escrowd.Model, int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.StoreApp.Query(path, data)
}

func (a *Application) result(res *escrowd.DeliverResult, err error) Result {
	if err != nil {
		a.logger.Debug("transaction failed", "err", err)
		code, log := errors.Info(err, a.debug)
		return Result{Code: code, Log: log, Height: a.height}
	}
	return Result{Data: res.Data, Log: res.Log, Height: a.height}
}

// loadTx calls the decoder, and capture any panics
func (a *Application) loadTx(txBytes []byte) (tx escrowd.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = a.decoder(txBytes)
	return
}
