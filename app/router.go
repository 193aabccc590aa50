package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[0-9A-Za-z_\-/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]escrowd.Handler
}

var _ escrowd.Registry = (*Router)(nil)
var _ escrowd.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]escrowd.Handler, 10),
	}
}

// Handle adds a new Handler for the given message type.
// It panics if another Handler was already registered for the same path
// or the path is malformed.
func (r *Router) Handle(msg escrowd.Msg, h escrowd.Handler) {
	path := msg.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path or a handler that
// fails with ErrNotFound.
func (r *Router) handler(path string) escrowd.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	path, err := msgPath(tx)
	if err != nil {
		return nil, err
	}
	return r.handler(path).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	path, err := msgPath(tx)
	if err != nil {
		return nil, err
	}
	return r.handler(path).Deliver(ctx, store, tx)
}

func msgPath(tx escrowd.Tx) (string, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return "", errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return "", errors.Wrap(errors.ErrInput, "transaction without a message")
	}
	return msg.Path(), nil
}

// notFoundHandler always returns ErrNotFound error regardless of the
// arguments.
type notFoundHandler string

func (path notFoundHandler) Check(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(path))
}

func (path notFoundHandler) Deliver(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(path))
}
