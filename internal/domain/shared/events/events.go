package events

import "time"

// DomainEvent is a fact recorded by an aggregate and relayed through the outbox.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// Recorder buffers events until the unit of work hands them to the outbox.
type Recorder struct {
	pending []DomainEvent
}

func (r *Recorder) Record(event DomainEvent) {
	if event == nil {
		return
	}
	r.pending = append(r.pending, event)
}

// PendingEvents returns a copy of the buffered events.
func (r *Recorder) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.pending))
	copy(out, r.pending)
	return out
}

// DrainEvents returns the buffered events and clears the buffer.
func (r *Recorder) DrainEvents() []DomainEvent {
	out := r.pending
	r.pending = nil
	return out
}
