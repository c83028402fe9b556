package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/domain/shared/apperr"
)

// IdempotentCommand is a command a client may safely resend. ResultPrototype
// returns a pointer of the handler's result type to decode a replay into.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	ResultPrototype() any
}

// IdempotencyRecord is the first outcome stored for a key: either an encoded
// result or a kinded failure.
type IdempotencyRecord struct {
	Key        string    `json:"key"`
	Payload    []byte    `json:"payload,omitempty"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

var errMissingPrototype = errors.New("middleware: idempotent command requires result prototype")

// Idempotency replays the first outcome recorded for a key. Kinded failures
// are replayed too; infrastructure errors are not recorded so the caller may
// retry.
func Idempotency(store IdempotencyStore) commands.Middleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	return func(next commands.Bus) commands.Bus {
		return commands.BusFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			idem, ok := cmd.(IdempotentCommand)
			if !ok || idem.IdempotencyKey() == "" {
				return next.Dispatch(ctx, cmd)
			}
			key := cmd.Key() + ":" + idem.IdempotencyKey()
			rec, found, err := store.Get(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("idempotency lookup: %w", err)
			}
			if found {
				return replay(rec, idem.ResultPrototype())
			}
			res, err := next.Dispatch(ctx, cmd)
			if saveErr := remember(ctx, store, key, res, err); saveErr != nil {
				return nil, errors.Join(err, saveErr)
			}
			return res, err
		})
	}
}

func replay(rec IdempotencyRecord, proto any) (any, error) {
	if rec.Error != "" {
		return nil, apperr.New(apperr.Kind(rec.ErrorKind), rec.Error)
	}
	if proto == nil {
		return nil, errMissingPrototype
	}
	if len(rec.Payload) > 0 {
		if err := json.Unmarshal(rec.Payload, proto); err != nil {
			return nil, fmt.Errorf("decode replayed result: %w", err)
		}
	}
	return proto, nil
}

// remember stores the outcome unless it is an unkinded failure.
func remember(ctx context.Context, store IdempotencyStore, key string, res any, handlerErr error) error {
	rec := IdempotencyRecord{Key: key, OccurredAt: time.Now().UTC()}
	switch {
	case handlerErr != nil && apperr.KindOf(handlerErr) == "":
		return nil
	case handlerErr != nil:
		rec.ErrorKind = string(apperr.KindOf(handlerErr))
		rec.Error = apperr.Message(handlerErr)
	case res != nil:
		payload, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		rec.Payload = payload
	}
	return store.Save(ctx, rec)
}
