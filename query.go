package escrowd

import (
	"fmt"
)

// Model is a single key/value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair builds a Model.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler serves read only lookups, for example an escrow by its id.
// Returning no models means nothing was found.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, data []byte) ([]Model, error)
}

// QueryRegister is implemented by every extension that exposes queries.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths such as "/escrows" to their handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router with no paths registered.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll lets each extension add its paths.
func (r QueryRouter) RegisterAll(regs ...QueryRegister) {
	for _, register := range regs {
		register(r)
	}
}

// Register binds h to path. Registering the same path twice is a
// programming error and panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
