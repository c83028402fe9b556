package payments

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"staybook/internal/app/policies"
)

func TestMockGatewayExtremes(t *testing.T) {
	ctx := context.Background()
	ref, err := NewMockGateway(0, nil).Charge(ctx, policies.Charge{BookingID: "b1", Amount: 1000})
	if err != nil || !strings.HasPrefix(ref, "pay_") {
		t.Fatalf("expected approval, got %q %v", ref, err)
	}
	if _, err := NewMockGateway(1, nil).Charge(ctx, policies.Charge{BookingID: "b1"}); !errors.Is(err, policies.ErrPaymentDeclined) {
		t.Fatalf("expected decline, got %v", err)
	}
}

func TestMockGatewayDeclineRate(t *testing.T) {
	g := NewMockGateway(0.1, slog.New(slog.NewTextHandler(io.Discard, nil))).WithSeed(42)
	declines := 0
	const n = 2000
	for i := 0; i < n; i++ {
		if _, err := g.Charge(context.Background(), policies.Charge{BookingID: "b"}); err != nil {
			declines++
		}
	}
	if declines < n/20 || declines > n/5 {
		t.Fatalf("decline count %d far from 10%% of %d", declines, n)
	}
}

func TestMockGatewayHonoursCancellation(t *testing.T) {
	g := NewMockGateway(0, nil)
	g.Latency = time.Minute
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Charge(ctx, policies.Charge{BookingID: "b"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
