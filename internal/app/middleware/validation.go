package middleware

import (
	"context"

	"staybook/internal/app/commands"
	"staybook/internal/app/queries"
)

// Validator checks message shape before any handler or unit of work runs.
type Validator interface {
	Validate(ctx context.Context, message any) error
}

func Validation(v Validator) commands.Middleware {
	mustValidator(v)
	return func(next commands.Bus) commands.Bus {
		return commands.BusFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := v.Validate(ctx, cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryValidation(v Validator) queries.Middleware {
	mustValidator(v)
	return func(next queries.Bus) queries.Bus {
		return queries.BusFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := v.Validate(ctx, q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}

func mustValidator(v Validator) {
	if v == nil {
		panic("middleware: validator required")
	}
}
