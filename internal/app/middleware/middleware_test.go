package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"

	"staybook/internal/app/commands"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
)

type createThing struct {
	Name    string
	IdemKey string
}

func (createThing) Key() string              { return "thing.create" }
func (c createThing) IdempotencyKey() string { return c.IdemKey }
func (createThing) ResultPrototype() any     { return &thingResult{} }

type thingResult struct {
	ID string `json:"id"`
}

type memStore struct {
	mu   sync.Mutex
	recs map[string]IdempotencyRecord
}

func (s *memStore) Get(_ context.Context, key string) (IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[key]
	return rec, ok, nil
}

func (s *memStore) Save(_ context.Context, rec IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recs == nil {
		s.recs = map[string]IdempotencyRecord{}
	}
	s.recs[rec.Key] = rec
	return nil
}

func TestIdempotencyReplaysResult(t *testing.T) {
	calls := 0
	bus := commands.NewRegistry()
	commands.Register[createThing, *thingResult](bus, commands.HandlerFunc[createThing, *thingResult](
		func(_ context.Context, c createThing) (*thingResult, error) {
			calls++
			return &thingResult{ID: c.Name}, nil
		}))
	wrapped := commands.Chain(bus, Idempotency(&memStore{}))

	ctx := context.Background()
	first, err := commands.Dispatch[createThing, *thingResult](ctx, wrapped, createThing{Name: "a", IdemKey: "k1"})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := commands.Dispatch[createThing, *thingResult](ctx, wrapped, createThing{Name: "b", IdemKey: "k1"})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if calls != 1 || first.ID != "a" || second.ID != "a" {
		t.Fatalf("expected replay, calls=%d first=%v second=%v", calls, first, second)
	}
	if _, err := commands.Dispatch[createThing, *thingResult](ctx, wrapped, createThing{Name: "c"}); err != nil || calls != 2 {
		t.Fatalf("commands without a key always run, calls=%d err=%v", calls, err)
	}
}

func TestIdempotencyReplaysKindedErrorsOnly(t *testing.T) {
	var next error
	calls := 0
	bus := commands.NewRegistry()
	commands.Register[createThing, *thingResult](bus, commands.HandlerFunc[createThing, *thingResult](
		func(context.Context, createThing) (*thingResult, error) {
			calls++
			return nil, next
		}))
	wrapped := commands.Chain(bus, Idempotency(&memStore{}))
	ctx := context.Background()

	next = errors.New("mongo unavailable")
	if _, err := wrapped.Dispatch(ctx, createThing{IdemKey: "k"}); err == nil {
		t.Fatalf("expected infra error")
	}
	next = apperr.Conflict("listing is already booked")
	if _, err := wrapped.Dispatch(ctx, createThing{IdemKey: "k"}); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	next = nil
	_, err := wrapped.Dispatch(ctx, createThing{IdemKey: "k"})
	if !apperr.IsKind(err, apperr.KindConflict) || apperr.Message(err) != "listing is already booked" {
		t.Fatalf("expected replayed conflict, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 handler calls, got %d", calls)
	}
}

type fakeUnit struct {
	committed, rolledBack bool
}

func (u *fakeUnit) Listings() domainlistings.Repository { return nil }
func (u *fakeUnit) Bookings() domainbooking.Repository  { return nil }
func (u *fakeUnit) Users() domainuser.Repository        { return nil }
func (u *fakeUnit) Commit(context.Context) error        { u.committed = true; return nil }
func (u *fakeUnit) Rollback(context.Context) error      { u.rolledBack = true; return nil }

type fakeFactory struct{ units []*fakeUnit }

func (f *fakeFactory) Begin(context.Context, uow.TxOptions) (uow.UnitOfWork, error) {
	u := &fakeUnit{}
	f.units = append(f.units, u)
	return u, nil
}

func TestTransactionCommitsOrRollsBack(t *testing.T) {
	var fail bool
	bus := commands.NewRegistry()
	commands.Register[createThing, *thingResult](bus, commands.HandlerFunc[createThing, *thingResult](
		func(ctx context.Context, _ createThing) (*thingResult, error) {
			if _, ok := uow.Current(ctx); !ok {
				t.Fatalf("unit missing from context")
			}
			if fail {
				return nil, apperr.Validation("bad")
			}
			return &thingResult{ID: "ok"}, nil
		}))
	factory := &fakeFactory{}
	wrapped := commands.Chain(bus, Transaction(factory))

	if _, err := wrapped.Dispatch(context.Background(), createThing{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	fail = true
	if _, err := wrapped.Dispatch(context.Background(), createThing{}); err == nil {
		t.Fatalf("expected failure")
	}
	if !factory.units[0].committed || factory.units[0].rolledBack {
		t.Fatalf("first unit should commit only: %+v", factory.units[0])
	}
	if factory.units[1].committed || !factory.units[1].rolledBack {
		t.Fatalf("second unit should roll back: %+v", factory.units[1])
	}
}

type countingOutbox struct{ flushes int }

func (o *countingOutbox) Add(context.Context, outbox.EventRecord) error { return nil }
func (o *countingOutbox) Flush(context.Context) error                   { o.flushes++; return nil }

func TestOutboxFlushOnlyOnSuccess(t *testing.T) {
	var fail bool
	bus := commands.NewRegistry()
	commands.Register[createThing, *thingResult](bus, commands.HandlerFunc[createThing, *thingResult](
		func(context.Context, createThing) (*thingResult, error) {
			if fail {
				return nil, apperr.Forbidden("no")
			}
			return &thingResult{}, nil
		}))
	box := &countingOutbox{}
	wrapped := commands.Chain(bus, OutboxFlush(box))
	_, _ = wrapped.Dispatch(context.Background(), createThing{})
	fail = true
	_, _ = wrapped.Dispatch(context.Background(), createThing{})
	if box.flushes != 1 {
		t.Fatalf("expected one flush, got %d", box.flushes)
	}
}
