package uow

import (
	"context"
	"errors"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainuser "staybook/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary. A write
// unit serialises the check-then-insert of booking creation.
type UnitOfWork interface {
	Listings() domainlistings.Repository
	Bookings() domainbooking.Repository
	Users() domainuser.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Locker is implemented by units that can take a per-listing write lock
// inside the transaction.
type Locker interface {
	LockListing(ctx context.Context, id domainlistings.ID) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}

// LockListing takes the listing lock when the unit supports it.
func LockListing(ctx context.Context, unit UnitOfWork, id domainlistings.ID) error {
	if locker, ok := unit.(Locker); ok {
		return locker.LockListing(ctx, id)
	}
	return nil
}

var ErrUnitOfWorkMissing = errors.New("uow: no unit of work in context")

type unitKey struct{}

// WithUnit returns ctx carrying unit.
func WithUnit(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, unitKey{}, unit)
}

// Current returns the unit carried by ctx.
func Current(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(unitKey{}).(UnitOfWork)
	return unit, ok
}

// ContextInjector is implemented by units whose repositories need a derived
// context, such as a database session.
type ContextInjector interface {
	InjectContext(ctx context.Context) context.Context
}

// Begin opens a unit and returns the context repository calls must use.
func Begin(ctx context.Context, factory UoWFactory, opts TxOptions) (UnitOfWork, context.Context, error) {
	if factory == nil {
		return nil, ctx, ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, ctx, err
	}
	if injector, ok := unit.(ContextInjector); ok {
		ctx = injector.InjectContext(ctx)
	}
	return unit, WithUnit(ctx, unit), nil
}

// Run executes fn in a fresh write unit. The unit commits when fn succeeds
// and rolls back otherwise.
func Run[T any](ctx context.Context, factory UoWFactory, fn func(ctx context.Context, unit UnitOfWork) (T, error)) (T, error) {
	var zero T
	unit, txCtx, err := Begin(ctx, factory, TxOptions{})
	if err != nil {
		return zero, err
	}
	res, err := fn(txCtx, unit)
	if err != nil {
		_ = unit.Rollback(txCtx)
		return zero, err
	}
	if err := unit.Commit(txCtx); err != nil {
		_ = unit.Rollback(txCtx)
		return zero, err
	}
	return res, nil
}
