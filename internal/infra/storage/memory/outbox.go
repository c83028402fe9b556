package memory

import (
	"context"
	"log/slog"
	"sync"

	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/app/uow"
)

// Outbox buffers events in memory. Records added inside a memory unit of
// work are dropped if that unit rolls back. Flush hands pending records to
// the publisher when one is configured and keeps any that fail for the next
// flush.
type Outbox struct {
	Publisher appoutbox.Publisher
	Logger    *slog.Logger

	mu      sync.Mutex
	records []appoutbox.EventRecord
	sent    int
}

func NewOutbox(publisher appoutbox.Publisher, logger *slog.Logger) *Outbox {
	return &Outbox{Publisher: publisher, Logger: logger}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	o.records = append(o.records, record)
	o.mu.Unlock()
	if unit, ok := uow.Current(ctx); ok {
		if mu, ok := unit.(*Unit); ok {
			mu.OnRollback(func() { o.drop(record.ID) })
		}
	}
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	pending := o.records
	o.records = nil
	o.mu.Unlock()

	var failed []appoutbox.EventRecord
	for i, rec := range pending {
		if o.Publisher == nil {
			o.log().DebugContext(ctx, "event dropped without publisher", "event", rec.Name, "aggregate_id", rec.Aggregate)
			continue
		}
		if err := o.Publisher.Publish(ctx, rec); err != nil {
			o.log().WarnContext(ctx, "event publish failed", "event", rec.Name, "error", err)
			failed = append(failed, pending[i:]...)
			break
		}
		o.mu.Lock()
		o.sent++
		o.mu.Unlock()
	}
	if len(failed) > 0 {
		o.mu.Lock()
		o.records = append(failed, o.records...)
		o.mu.Unlock()
	}
	return nil
}

// Pending returns a copy of the unflushed records.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]appoutbox.EventRecord(nil), o.records...)
}

// Sent reports how many records were handed to the publisher.
func (o *Outbox) Sent() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sent
}

func (o *Outbox) drop(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = deleteByID(o.records, id)
}

func deleteByID(records []appoutbox.EventRecord, id string) []appoutbox.EventRecord {
	out := records[:0]
	for _, rec := range records {
		if rec.ID != id {
			out = append(out, rec)
		}
	}
	return out
}

func (o *Outbox) log() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

var _ appoutbox.Outbox = (*Outbox)(nil)
