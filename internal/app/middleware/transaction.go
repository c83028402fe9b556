package middleware

import (
	"context"

	"staybook/internal/app/commands"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
)

// Transaction runs each command in its own write unit. Handlers find the unit
// in their context and must not commit it themselves.
func Transaction(factory uow.UoWFactory) commands.Middleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		return commands.BusFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			return uow.Run(ctx, factory, func(txCtx context.Context, _ uow.UnitOfWork) (any, error) {
				return next.Dispatch(txCtx, cmd)
			})
		})
	}
}

// OutboxFlush publishes buffered events once a command has succeeded. It sits
// outside Transaction so only committed work is flushed.
func OutboxFlush(box outbox.Outbox) commands.Middleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		return commands.BusFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
