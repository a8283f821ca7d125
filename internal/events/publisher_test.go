package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booksandchill/storefront/internal/cart"
	"github.com/booksandchill/storefront/internal/checkout"
)

type sinkMock struct {
	key     []byte
	value   []byte
	headers []kafkago.Header
	calls   int
}

func (s *sinkMock) Publish(key, value []byte, headers ...kafkago.Header) {
	s.key = key
	s.value = value
	s.headers = headers
	s.calls++
}

func TestPublishOrderCompleted(t *testing.T) {
	sink := &sinkMock{}
	pub := NewPublisher(sink, "storefront-api")

	order := checkout.Order{
		ID:        "ORD-1700000000000",
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Items:     []cart.LineItem{{ProductID: "bk-001", UnitPrice: 18.50, Quantity: 2}},
		Method:    checkout.MethodExpress,
		Total:     52.95,
	}
	pub.PublishOrderCompleted(context.Background(), order)

	require.Equal(t, 1, sink.calls)
	assert.Equal(t, []byte("ORD-1700000000000"), sink.key, "partition key is the order id")

	var env Envelope
	require.NoError(t, json.Unmarshal(sink.value, &env))
	assert.Equal(t, EventOrderCompleted, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "storefront-api", env.Producer)
	assert.Equal(t, order.ID, env.CorrelationID)
	assert.NotEmpty(t, env.EventID)

	var payload OrderCompletedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, order.ID, payload.OrderID)
	assert.Equal(t, "express", payload.ShippingMethod)
	assert.Equal(t, 52.95, payload.Total)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 2, payload.Items[0].Quantity)

	require.Len(t, sink.headers, 2)
	assert.Equal(t, "x-event-type", sink.headers[0].Key)
	assert.Equal(t, []byte(EventOrderCompleted), sink.headers[0].Value)
}
