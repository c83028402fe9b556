package queries

import (
	"context"
	"errors"
	"testing"
)

type echoQuery struct{ Term string }

func (echoQuery) Key() string { return "test.echo" }

type echoHandler struct{ calls int }

func (h *echoHandler) Handle(_ context.Context, q echoQuery) ([]string, error) {
	h.calls++
	return []string{q.Term}, nil
}

func TestAskRoutesByKey(t *testing.T) {
	reg := NewRegistry()
	h := &echoHandler{}
	Register[echoQuery, []string](reg, h)

	got, err := Ask[echoQuery, []string](context.Background(), reg, echoQuery{Term: "tahoe"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if len(got) != 1 || got[0] != "tahoe" || h.calls != 1 {
		t.Fatalf("unexpected result %v after %d calls", got, h.calls)
	}
	if _, err := Ask[echoQuery, string](context.Background(), reg, echoQuery{}); !errors.Is(err, ErrResultType) {
		t.Fatalf("expected ErrResultType, got %v", err)
	}
}

func TestAskUnknownQuery(t *testing.T) {
	bus := Chain(NewRegistry(), func(next Bus) Bus {
		return BusFunc(func(ctx context.Context, q Query) (any, error) {
			return next.Ask(ctx, q)
		})
	})
	if _, err := bus.Ask(context.Background(), echoQuery{}); !errors.Is(err, ErrHandlerNotFound) {
		t.Fatalf("expected ErrHandlerNotFound, got %v", err)
	}
}
