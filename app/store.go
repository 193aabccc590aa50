package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed
// to perform queries and initialize the chain.
//
// It should be embedded in another struct for CheckTx and DeliverTx.
type StoreApp struct {
	logger log.Logger

	// name is used in log messages to identify the application
	name string

	// Database state (committed, check, deliver....)
	store *CommitStore

	// Code to initialize from a genesis file
	initializer escrowd.Initializer

	// How to handle queries
	queryRouter escrowd.QueryRouter

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID string

	// height of the last committed block
	height int64

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext escrowd.Context

	// blockContext contains context info that is valid for the
	// current block (eg. height, time), reset on BeginBlock
	blockContext escrowd.Context
}

// NewStoreApp initializes this app into a ready state with some defaults.
// Chain id and height are loaded from the committed state.
func NewStoreApp(name string, store escrowd.CommitKVStore,
	queryRouter escrowd.QueryRouter, baseContext escrowd.Context) (*StoreApp, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(store)
	if err != nil {
		return nil, err
	}
	if chainID != "" {
		s.chainID = chainID
		s.baseContext = escrowd.WithChainID(s.baseContext, chainID)
	}

	height, err := s.store.Height()
	if err != nil {
		return nil, err
	}
	s.height = height
	s.blockContext = escrowd.WithHeight(s.baseContext, height)
	return s, nil
}

// GetChainID returns the current chainID
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// Height returns the height of the last committed block.
func (s *StoreApp) Height() int64 {
	return s.height
}

// WithInit is used to set the init function we call
func (s *StoreApp) WithInit(init escrowd.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization
//
// also sets baseContext logger
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = escrowd.WithLogger(s.baseContext, logger)
	s.logger = logger.With("app", s.name)
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the block context for public use
func (s *StoreApp) BlockContext() escrowd.Context {
	return s.blockContext
}

// DeliverStore returns the current DeliverTx cache for methods
func (s *StoreApp) DeliverStore() escrowd.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the current CheckTx cache for methods
func (s *StoreApp) CheckStore() escrowd.CacheableKVStore {
	return s.store.CheckStore()
}

// InitChain stores the chain id and passes the application state to the
// initializer. It can be called only once in the lifetime of a chain.
func (s *StoreApp) InitChain(gen Genesis) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "app state previously loaded for chain %s", s.chainID)
	}
	if err := saveChainID(s.DeliverStore(), gen.ChainID); err != nil {
		s.store.Rollback()
		return err
	}
	if s.initializer != nil {
		if err := s.initializer.FromGenesis(gen.AppState, s.DeliverStore()); err != nil {
			s.store.Rollback()
			return errors.Wrap(err, "genesis")
		}
	}
	if _, err := s.store.Commit(); err != nil {
		return err
	}

	s.chainID = gen.ChainID
	s.baseContext = escrowd.WithChainID(s.baseContext, s.chainID)
	s.blockContext = escrowd.WithHeight(s.baseContext, s.height)
	s.logger.Info("chain initialized", "chain_id", s.chainID)
	return nil
}

// BeginBlock sets up the context of the block following the last committed
// one.
func (s *StoreApp) BeginBlock(now time.Time) {
	ctx := escrowd.WithHeight(s.baseContext, s.height+1)
	s.blockContext = escrowd.WithBlockTime(ctx, now)
}

// Commit saves all changes delivered in the current block as a new store
// version and advances the height.
func (s *StoreApp) Commit() error {
	id, err := s.store.Commit()
	if err != nil {
		return err
	}
	s.height = versionHeight(id.Version)
	s.logger.Debug("commit synced", "height", s.height, "hash", fmt.Sprintf("%X", id.Hash))
	return nil
}

// CommitInfo returns the version and the root hash of the committed state.
func (s *StoreApp) CommitInfo() (escrowd.CommitID, error) {
	return s.store.CommitInfo()
}

// Rollback drops all changes of the current block.
func (s *StoreApp) Rollback() {
	s.store.Rollback()
}

// Query gets data from the committed state. The path selects a registered
// query handler, anything after "?" is ignored. It returns the matching
// models and the height of the state they were read from.
func (s *StoreApp) Query(path string, data []byte) ([]escrowd.Model, int64, error) {
	path = strings.SplitN(path, "?", 2)[0]
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return nil, s.height, errors.Wrapf(errors.ErrNotFound, "unexpected query path %q", path)
	}
	models, err := qh.Query(s.store.ReadStore(), data)
	if err != nil {
		return nil, s.height, err
	}
	return models, s.height, nil
}
