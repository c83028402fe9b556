package outbox

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	appoutbox "staybook/internal/app/outbox"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

// Queue is the claim protocol the relay worker drives; *Store implements it.
type Queue interface {
	Claim(ctx context.Context, workerID string) (*EventDocument, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}

// Worker relays committed outbox records to the broker.
type Worker struct {
	Queue     Queue
	Publisher appoutbox.Publisher
	Interval  time.Duration
	Backoff   []time.Duration
	ID        string
	Logger    *slog.Logger

	now func() time.Time
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Queue == nil || w.Publisher == nil {
		return ErrWorkerNotConfigured
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				w.log().WarnContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

// drain relays due records until the queue is empty or a claim fails.
func (w *Worker) drain(ctx context.Context) error {
	for ctx.Err() == nil {
		relayed, err := w.processOnce(ctx)
		if err != nil || !relayed {
			return err
		}
	}
	return nil
}

func (w *Worker) processOnce(ctx context.Context) (bool, error) {
	doc, err := w.Queue.Claim(ctx, w.ID)
	if err != nil || doc == nil {
		return false, err
	}
	if err := w.Publisher.Publish(ctx, doc.Record()); err != nil {
		next := w.nextRetry(doc.Attempts)
		w.log().WarnContext(ctx, "outbox publish failed", "event", doc.Name, "id", doc.ID, "attempts", doc.Attempts+1, "retry_at", next, "error", err)
		return true, w.Queue.MarkFailed(ctx, doc.ID, next, err.Error())
	}
	return true, w.Queue.MarkSent(ctx, doc.ID)
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) nextRetry(attempts int) time.Time {
	now := time.Now()
	if w.now != nil {
		now = w.now()
	}
	if attempts < len(w.Backoff) {
		return now.Add(w.Backoff[attempts])
	}
	if len(w.Backoff) > 0 {
		return now.Add(w.Backoff[len(w.Backoff)-1])
	}
	return now.Add(5 * time.Second)
}

func (w *Worker) log() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
