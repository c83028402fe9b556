package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Command is a write intent. Key names the handler it is routed to and must
// not depend on field values.
type Command interface {
	Key() string
}

type Handler[C Command, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[C Command, R any] func(ctx context.Context, cmd C) (R, error)

func (f HandlerFunc[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return f(ctx, cmd)
}

type Bus interface {
	Dispatch(ctx context.Context, cmd Command) (any, error)
}

// BusFunc lets middleware wrap a bus with a plain function.
type BusFunc func(ctx context.Context, cmd Command) (any, error)

func (f BusFunc) Dispatch(ctx context.Context, cmd Command) (any, error) {
	return f(ctx, cmd)
}

type Middleware func(next Bus) Bus

// Chain wraps base so that the first middleware sees a command first.
func Chain(base Bus, mws ...Middleware) Bus {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

var (
	ErrHandlerNotFound = errors.New("commands: handler not found")
	ErrInvalidCommand  = errors.New("commands: invalid command for handler")
	ErrResultType      = errors.New("commands: result type mismatch")
	ErrNilBus          = errors.New("commands: nil bus")
)

// Registry is the terminal bus: it maps command keys to handlers wired at
// startup.
type Registry struct {
	routes map[string]BusFunc
}

func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]BusFunc)}
}

func (r *Registry) Dispatch(ctx context.Context, cmd Command) (any, error) {
	route, ok := r.routes[cmd.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, cmd.Key())
	}
	return route(ctx, cmd)
}

// Keys lists the registered command keys in order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.routes))
	for k := range r.routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register routes commands of type C to h under C's key. A second handler for
// the same key is a wiring bug and panics.
func Register[C Command, R any](r *Registry, h Handler[C, R]) {
	var zero C
	key := zero.Key()
	if key == "" {
		panic(fmt.Sprintf("commands: %T has an empty key", zero))
	}
	if _, taken := r.routes[key]; taken {
		panic("commands: duplicate registration for " + key)
	}
	r.routes[key] = func(ctx context.Context, raw Command) (any, error) {
		cmd, ok := raw.(C)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %T", ErrInvalidCommand, key, raw)
		}
		return h.Handle(ctx, cmd)
	}
}

// Dispatch sends cmd through bus and asserts the handler's result type.
func Dispatch[C Command, R any](ctx context.Context, bus Bus, cmd C) (R, error) {
	var out R
	if bus == nil {
		return out, ErrNilBus
	}
	res, err := bus.Dispatch(ctx, cmd)
	if err != nil || res == nil {
		return out, err
	}
	typed, ok := res.(R)
	if !ok {
		return out, fmt.Errorf("%w: %s returned %T", ErrResultType, cmd.Key(), res)
	}
	return typed, nil
}
