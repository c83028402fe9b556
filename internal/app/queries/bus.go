package queries

import (
	"context"
	"errors"
	"fmt"
)

// Query is a read request; it never changes stored state.
type Query interface {
	Key() string
}

type Handler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

type Bus interface {
	Ask(ctx context.Context, query Query) (any, error)
}

type BusFunc func(ctx context.Context, query Query) (any, error)

func (f BusFunc) Ask(ctx context.Context, query Query) (any, error) {
	return f(ctx, query)
}

type Middleware func(next Bus) Bus

func Chain(base Bus, mws ...Middleware) Bus {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

var (
	ErrHandlerNotFound = errors.New("queries: handler not found")
	ErrInvalidQuery    = errors.New("queries: invalid query for handler")
	ErrResultType      = errors.New("queries: result type mismatch")
	ErrNilBus          = errors.New("queries: nil bus")
)

type Registry struct {
	routes map[string]BusFunc
}

func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]BusFunc)}
}

func (r *Registry) Ask(ctx context.Context, query Query) (any, error) {
	route, ok := r.routes[query.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, query.Key())
	}
	return route(ctx, query)
}

// Register routes queries of type Q to h under Q's key.
func Register[Q Query, R any](r *Registry, h Handler[Q, R]) {
	var zero Q
	key := zero.Key()
	if key == "" {
		panic(fmt.Sprintf("queries: %T has an empty key", zero))
	}
	if _, taken := r.routes[key]; taken {
		panic("queries: duplicate registration for " + key)
	}
	r.routes[key] = func(ctx context.Context, raw Query) (any, error) {
		q, ok := raw.(Q)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %T", ErrInvalidQuery, key, raw)
		}
		return h.Handle(ctx, q)
	}
}

// Ask sends query through bus and asserts the handler's result type.
func Ask[Q Query, R any](ctx context.Context, bus Bus, query Q) (R, error) {
	var out R
	if bus == nil {
		return out, ErrNilBus
	}
	res, err := bus.Ask(ctx, query)
	if err != nil || res == nil {
		return out, err
	}
	typed, ok := res.(R)
	if !ok {
		return out, fmt.Errorf("%w: %s returned %T", ErrResultType, query.Key(), res)
	}
	return typed, nil
}
