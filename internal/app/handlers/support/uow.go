package support

import (
	"context"

	"staybook/internal/app/uow"
)

// BeginReadOnlyUnit reuses the unit carried by ctx or opens a read-only one.
// The returned cleanup is nil when the unit was borrowed.
func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	if unit, ok := uow.Current(ctx); ok {
		return unit, ctx, nil, nil
	}
	unit, execCtx, err := uow.Begin(ctx, factory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, nil, err
	}
	cleanup := func() {
		_ = unit.Rollback(execCtx)
	}
	return unit, execCtx, cleanup, nil
}

// WriteUnit is a unit of work that is either borrowed from the transaction
// middleware or owned by the handler that opened it.
type WriteUnit struct {
	uow.UnitOfWork
	owned     bool
	committed bool
}

// BeginWriteUnit reuses the unit carried by ctx or opens a write unit owned
// by the caller. Callers must defer Release and call Commit on success.
func BeginWriteUnit(ctx context.Context, factory uow.UoWFactory) (*WriteUnit, context.Context, error) {
	if unit, ok := uow.Current(ctx); ok {
		return &WriteUnit{UnitOfWork: unit}, ctx, nil
	}
	unit, execCtx, err := uow.Begin(ctx, factory, uow.TxOptions{})
	if err != nil {
		return nil, ctx, err
	}
	return &WriteUnit{UnitOfWork: unit, owned: true}, execCtx, nil
}

// Commit commits an owned unit; a borrowed unit is committed by its owner.
func (w *WriteUnit) Commit(ctx context.Context) error {
	if !w.owned || w.committed {
		return nil
	}
	if err := w.UnitOfWork.Commit(ctx); err != nil {
		return err
	}
	w.committed = true
	return nil
}

// Release rolls back an owned unit that was not committed.
func (w *WriteUnit) Release(ctx context.Context) {
	if w.owned && !w.committed {
		_ = w.UnitOfWork.Rollback(ctx)
	}
}
