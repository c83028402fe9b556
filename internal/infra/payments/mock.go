package payments

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/policies"
)

// MockGateway approves charges at random, declining roughly DeclineRate of
// them, after an optional simulated latency.
type MockGateway struct {
	DeclineRate float64
	Latency     time.Duration
	Logger      *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMockGateway(declineRate float64, logger *slog.Logger) *MockGateway {
	return &MockGateway{
		DeclineRate: declineRate,
		Logger:      logger,
		rnd:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
}

// WithSeed makes the decline sequence deterministic.
func (g *MockGateway) WithSeed(seed uint64) *MockGateway {
	g.mu.Lock()
	g.rnd = rand.New(rand.NewPCG(seed, seed))
	g.mu.Unlock()
	return g
}

func (g *MockGateway) Charge(ctx context.Context, charge policies.Charge) (string, error) {
	if g.Latency > 0 {
		timer := time.NewTimer(g.Latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	if g.declined() {
		g.log().InfoContext(ctx, "mock payment declined", "booking_id", charge.BookingID, "amount", charge.Amount.String())
		return "", policies.ErrPaymentDeclined
	}
	ref := "pay_" + uuid.NewString()
	g.log().InfoContext(ctx, "mock payment approved", "booking_id", charge.BookingID, "amount", charge.Amount.String(), "payment_ref", ref)
	return ref, nil
}

func (g *MockGateway) declined() bool {
	if g.DeclineRate <= 0 {
		return false
	}
	if g.DeclineRate >= 1 {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	return g.rnd.Float64() < g.DeclineRate
}

func (g *MockGateway) log() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

var _ policies.PaymentsPort = (*MockGateway)(nil)
