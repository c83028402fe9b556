package middleware

import (
	"context"
	"log/slog"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/queries"
	"staybook/internal/domain/shared/apperr"
)

// Observer receives the outcome of every bus message, e.g. for metrics.
type Observer interface {
	ObserveMessage(bus, key string, elapsed time.Duration, err error)
}

// Logging records the key, duration and outcome of every command.
func Logging(logger *slog.Logger, observer Observer) commands.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return commands.BusFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			logOutcome(ctx, logger, observer, "command", cmd.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func QueryLogging(logger *slog.Logger, observer Observer) queries.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		return queries.BusFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			logOutcome(ctx, logger, observer, "query", q.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func logOutcome(ctx context.Context, logger *slog.Logger, observer Observer, bus, key string, elapsed time.Duration, err error) {
	if observer != nil {
		observer.ObserveMessage(bus, key, elapsed, err)
	}
	attrs := []any{"bus", bus, "key", key, "duration_ms", elapsed.Milliseconds()}
	switch {
	case err == nil:
		logger.DebugContext(ctx, "message handled", attrs...)
	case apperr.KindOf(err) != "":
		logger.InfoContext(ctx, "message rejected", append(attrs, "kind", string(apperr.KindOf(err)), "error", err)...)
	default:
		logger.ErrorContext(ctx, "message failed", append(attrs, "error", err)...)
	}
}
