package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublish(t *testing.T) {
	w := &fakeWriter{}
	k := &Kafka{writer: w}

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	err := k.Publish(context.Background(), TopicOrder, "order-1", OrderEvent{
		Type:    OrderCreated,
		OrderID: "order-1",
		UserID:  "user-1",
		Lines:   2,
		At:      at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicOrder, msg.Topic)
	assert.Equal(t, "order-1", string(msg.Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, OrderCreated, decoded["type"])
	assert.Equal(t, "user-1", decoded["user_id"])
	assert.EqualValues(t, 2, decoded["lines"])
}

func TestKafkaPublishErrors(t *testing.T) {
	k := &Kafka{writer: &fakeWriter{err: errors.New("broker down")}}
	err := k.Publish(context.Background(), TopicCart, "u", CartEvent{Type: CartCleared})
	require.ErrorContains(t, err, "broker down")

	k = &Kafka{writer: &fakeWriter{}}
	err = k.Publish(context.Background(), TopicCart, "u", func() {})
	require.ErrorContains(t, err, "marshal event")
}
