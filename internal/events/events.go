// Package events publishes post-commit domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inkwell/internal/observability"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Event types.
const (
	TypeStoryPublished      = "story.published"
	TypeNotificationCreated = "notification.created"
)

// Event is the JSON envelope written to the topic.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// New wraps payload in an envelope with a fresh id.
func New(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}

// Publisher hands events to the bus. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, key string, evt Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single topic keyed by aggregate.
type KafkaPublisher struct {
	w messageWriter
}

// NewPublisher returns a Kafka-backed publisher, or a no-op one when no brokers
// are configured.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, evt Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		observability.EventsPublished.WithLabelValues(evt.Type, "error").Inc()
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	})
	if err != nil {
		observability.EventsPublished.WithLabelValues(evt.Type, "error").Inc()
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	observability.EventsPublished.WithLabelValues(evt.Type, "ok").Inc()
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
