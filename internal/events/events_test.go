package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNew(t *testing.T) {
	evt, err := New(TypeStoryPublished, map[string]uint{"story_id": 3})
	require.NoError(t, err)

	_, err = uuid.Parse(evt.ID)
	assert.NoError(t, err)
	assert.Equal(t, TypeStoryPublished, evt.Type)
	assert.False(t, evt.OccurredAt.IsZero())
	assert.JSONEq(t, `{"story_id":3}`, string(evt.Payload))
}

func TestNew_UnmarshalablePayload(t *testing.T) {
	_, err := New(TypeStoryPublished, make(chan int))
	assert.Error(t, err)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}

	evt, err := New(TypeNotificationCreated, map[string]any{"recipient_id": 7})
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), "7", evt))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "7", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, evt.ID, decoded["id"])
	assert.Equal(t, TypeNotificationCreated, decoded["type"])
	assert.Contains(t, decoded, "occurred_at")
	assert.Equal(t, map[string]any{"recipient_id": float64(7)}, decoded["payload"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{w: &fakeWriter{err: errors.New("broker down")}}

	evt, err := New(TypeStoryPublished, struct{}{})
	require.NoError(t, err)
	assert.Error(t, p.Publish(context.Background(), "1", evt))
}

func TestNewPublisher_NoBrokersIsNop(t *testing.T) {
	p := NewPublisher(nil, "inkwell.events")
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), "k", Event{}))
	assert.NoError(t, p.Close())
}

func TestNewPublisher_WithBrokers(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "inkwell.events")
	assert.IsType(t, &KafkaPublisher{}, p)
	assert.NoError(t, p.Close())
}
