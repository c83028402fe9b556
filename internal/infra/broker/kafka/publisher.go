package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	appoutbox "staybook/internal/app/outbox"
)

var ErrPublisherNotConfigured = errors.New("kafka: publisher missing producer")

// MessageSender is satisfied by Producer.
type MessageSender interface {
	Send(ctx context.Context, msg Message) error
}

// EventPublisher wraps outbox records as CloudEvents and sends them to
// "<prefix><aggregate>.events.v1", keyed by aggregate id.
type EventPublisher struct {
	Sender      MessageSender
	TopicPrefix string
	Source      string
}

func (p EventPublisher) Publish(ctx context.Context, rec appoutbox.EventRecord) error {
	if p.Sender == nil {
		return ErrPublisherNotConfigured
	}
	payload, headers, err := p.format(rec)
	if err != nil {
		return err
	}
	return p.Sender.Send(ctx, Message{
		Topic:   appoutbox.Topic(p.TopicPrefix, rec.Name),
		Key:     rec.Aggregate,
		Value:   payload,
		Headers: headers,
	})
}

type cloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	TraceParent     string          `json:"traceparent,omitempty"`
	Data            json.RawMessage `json:"data"`
}

func (p EventPublisher) format(rec appoutbox.EventRecord) ([]byte, map[string]string, error) {
	if !json.Valid(rec.Payload) {
		return nil, nil, errors.New("kafka: event payload is not valid JSON")
	}
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	evt := cloudEvent{
		SpecVersion:     "1.0",
		ID:              id,
		Type:            rec.Name + ".v1",
		Source:          p.source(),
		Subject:         rec.Aggregate,
		Time:            rec.OccurredAt,
		DataContentType: "application/json",
		TraceParent:     rec.Headers["traceparent"],
		Data:            rec.Payload,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{"content-type": "application/cloudevents+json"}
	for k, v := range rec.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}

func (p EventPublisher) source() string {
	if p.Source != "" {
		return p.Source
	}
	return "app://staybook"
}

var _ appoutbox.Publisher = EventPublisher{}
