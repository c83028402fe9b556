package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"

	"staybook/internal/domain/shared/events"
)

// EventRecord is a domain event encoded for storage and relay.
type EventRecord struct {
	ID         string
	Name       string
	Payload    []byte
	OccurredAt time.Time
	Aggregate  string
	Headers    map[string]string
}

// Outbox collects records written by a command. Flush runs after the command
// has committed.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
	Flush(ctx context.Context) error
}

type Publisher interface {
	Publish(ctx context.Context, record EventRecord) error
}

type EventEncoder interface {
	Encode(ctx context.Context, ev events.DomainEvent) (EventRecord, error)
}

// JSONEncoder encodes the event as JSON and copies the caller's trace
// context into the record headers.
type JSONEncoder struct {
	NewID func() string
}

func (e JSONEncoder) Encode(ctx context.Context, ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, fmt.Errorf("encode %s: %w", ev.EventName(), err)
	}
	newID := e.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	headers := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, headers)
	return EventRecord{
		ID:         newID(),
		Name:       ev.EventName(),
		Payload:    payload,
		OccurredAt: ev.OccurredAt().UTC(),
		Aggregate:  ev.AggregateID(),
		Headers:    headers,
	}, nil
}

// Record encodes evs and appends them to box in order.
func Record(ctx context.Context, box Outbox, enc EventEncoder, evs []events.DomainEvent) error {
	if box == nil {
		return nil
	}
	if enc == nil {
		enc = JSONEncoder{}
	}
	for _, ev := range evs {
		rec, err := enc.Encode(ctx, ev)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// AggregateType is the event name prefix, "booking" for "booking.paid".
func AggregateType(eventName string) string {
	name, _, _ := strings.Cut(eventName, ".")
	return name
}

// Topic maps an event to its broker topic, e.g. "staybook.booking.events.v1".
func Topic(prefix, eventName string) string {
	return prefix + AggregateType(eventName) + ".events.v1"
}
