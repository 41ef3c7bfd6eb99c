package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/segmentio/kafka-go"
)

const contactEventType = "ContactSubmitted"

// MessageWriter is the subset of *kafka.Writer used for publishing.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier exports submissions as JSON events, keyed by submission id.
type KafkaNotifier struct {
	writer MessageWriter
}

func NewKafkaWriter(topic string, brokers ...string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaNotifier(writer MessageWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: writer}
}

func (k *KafkaNotifier) NotifyContact(ctx context.Context, s *domain.ContactSubmission) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal contact submission: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(s.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(contactEventType)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish contact %s: %w", s.ID, err)
	}
	return nil
}

func (k *KafkaNotifier) Close() error {
	return k.writer.Close()
}
