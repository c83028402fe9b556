package kafka

import (
	"context"
	"errors"
	"sort"

	"github.com/IBM/sarama"
)

// Message is one record bound for a topic.
type Message struct {
	Topic   string
	Key     string
	Value   []byte
	Headers map[string]string
}

// Producer delivers messages synchronously and waits for all in-sync
// replicas to acknowledge.
type Producer struct {
	sync sarama.SyncProducer
}

func NewProducer(brokers []string, clientID string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	sync, err := sarama.NewSyncProducer(brokers, producerConfig(clientID))
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync}, nil
}

// producerConfig enables the idempotent producer, which needs a single
// in-flight request per connection.
func producerConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	if clientID != "" {
		cfg.ClientID = clientID
	}
	cfg.Version = sarama.V2_1_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

// NewProducerFrom wraps an existing sync producer.
func NewProducerFrom(sync sarama.SyncProducer) *Producer {
	return &Producer{sync: sync}
}

func (p *Producer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.sync == nil {
		return ErrPublisherNotConfigured
	}
	_, _, err := p.sync.SendMessage(&sarama.ProducerMessage{
		Topic:   msg.Topic,
		Key:     sarama.StringEncoder(msg.Key),
		Value:   sarama.ByteEncoder(msg.Value),
		Headers: recordHeaders(msg.Headers),
	})
	return err
}

func recordHeaders(headers map[string]string) []sarama.RecordHeader {
	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]sarama.RecordHeader, 0, len(names))
	for _, k := range names {
		out = append(out, sarama.RecordHeader{Key: []byte(k), Value: []byte(headers[k])})
	}
	return out
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}
