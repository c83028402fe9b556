package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	appoutbox "staybook/internal/app/outbox"
)

func TestEventPublisherSendsCloudEvent(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	sync := mocks.NewSyncProducer(t, cfg)
	defer sync.Close()

	var sent *sarama.ProducerMessage
	sync.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		sent = msg
		return nil
	})

	pub := EventPublisher{Sender: NewProducerFrom(sync), TopicPrefix: "staybook."}
	rec := appoutbox.EventRecord{
		ID:         "evt-1",
		Name:       "booking.paid",
		Payload:    []byte(`{"bookingId":"b1"}`),
		OccurredAt: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
		Aggregate:  "b1",
		Headers:    map[string]string{"traceparent": "00-abc-def-01"},
	}
	if err := pub.Publish(context.Background(), rec); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if sent == nil || sent.Topic != "staybook.booking.events.v1" {
		t.Fatalf("unexpected message %+v", sent)
	}
	key, _ := sent.Key.Encode()
	if string(key) != "b1" {
		t.Fatalf("expected aggregate key, got %s", key)
	}
	raw, _ := sent.Value.Encode()
	var evt map[string]any
	if err := json.Unmarshal(raw, &evt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if evt["type"] != "booking.paid.v1" || evt["id"] != "evt-1" || evt["traceparent"] != "00-abc-def-01" {
		t.Fatalf("unexpected envelope %v", evt)
	}
	if data, ok := evt["data"].(map[string]any); !ok || data["bookingId"] != "b1" {
		t.Fatalf("unexpected data %v", evt["data"])
	}
}

func TestEventPublisherRejectsInvalidPayload(t *testing.T) {
	pub := EventPublisher{Sender: NewProducerFrom(nil)}
	err := pub.Publish(context.Background(), appoutbox.EventRecord{Name: "booking.paid", Payload: []byte("{")})
	if err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}
