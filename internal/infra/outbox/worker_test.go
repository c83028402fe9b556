package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	appoutbox "staybook/internal/app/outbox"
)

type fakeQueue struct {
	docs   []*EventDocument
	sent   []string
	failed map[string]time.Time
}

func (q *fakeQueue) Claim(context.Context, string) (*EventDocument, error) {
	for _, d := range q.docs {
		if d.State == stateNew {
			d.State = stateClaimed
			return d, nil
		}
	}
	return nil, nil
}

func (q *fakeQueue) MarkSent(_ context.Context, id string) error {
	q.sent = append(q.sent, id)
	return nil
}

func (q *fakeQueue) MarkFailed(_ context.Context, id string, next time.Time, _ string) error {
	if q.failed == nil {
		q.failed = map[string]time.Time{}
	}
	q.failed[id] = next
	return nil
}

type fakePublisher struct {
	fail      map[string]bool
	published []appoutbox.EventRecord
}

func (p *fakePublisher) Publish(_ context.Context, rec appoutbox.EventRecord) error {
	if p.fail[rec.ID] {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, rec)
	return nil
}

func TestWorkerDrainRelaysAndSchedulesRetries(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	queue := &fakeQueue{docs: []*EventDocument{
		{ID: "e1", Name: "booking.requested", State: stateNew},
		{ID: "e2", Name: "booking.paid", State: stateNew, Attempts: 1},
		{ID: "e3", Name: "listing.created", State: stateNew, Attempts: 7},
	}}
	pub := &fakePublisher{fail: map[string]bool{"e2": true, "e3": true}}
	w := &Worker{
		Queue:     queue,
		Publisher: pub,
		Backoff:   []time.Duration{time.Second, 5 * time.Second, 30 * time.Second},
		ID:        "w1",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       func() time.Time { return now },
	}

	if err := w.drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0].Name != "booking.requested" {
		t.Fatalf("unexpected published records %+v", pub.published)
	}
	if len(queue.sent) != 1 || queue.sent[0] != "e1" {
		t.Fatalf("unexpected sent ids %v", queue.sent)
	}
	if got := queue.failed["e2"]; !got.Equal(now.Add(5 * time.Second)) {
		t.Fatalf("second attempt should back off 5s, got %v", got)
	}
	if got := queue.failed["e3"]; !got.Equal(now.Add(30 * time.Second)) {
		t.Fatalf("exhausted schedule should reuse the last backoff, got %v", got)
	}
}

func TestWorkerRequiresDependencies(t *testing.T) {
	if err := (&Worker{}).Run(context.Background()); !errors.Is(err, ErrWorkerNotConfigured) {
		t.Fatalf("expected ErrWorkerNotConfigured, got %v", err)
	}
}

func TestWorkerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &Worker{Queue: &fakeQueue{}, Publisher: &fakePublisher{}, Interval: time.Millisecond}
	if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
