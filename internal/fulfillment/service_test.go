package fulfillment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/booksandchill/storefront/internal/cart"
	"github.com/booksandchill/storefront/internal/events"
)

func completedOrderMessage(t *testing.T, eventID, orderID string) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(events.OrderCompletedPayload{
		OrderID:        orderID,
		CreatedAt:      time.Now(),
		Items:          []cart.LineItem{{ProductID: "bk-001", UnitPrice: 50.00, Quantity: 1}},
		ShippingMethod: "express",
		Total:          66.99,
	})
	require.NoError(t, err)
	value, err := json.Marshal(events.Envelope{
		EventID:      eventID,
		EventType:    events.EventOrderCompleted,
		EventVersion: 1,
		OccurredAt:   time.Now(),
		Producer:     "storefront-api",
		Payload:      payload,
	})
	require.NoError(t, err)
	return kafkago.Message{Key: events.PartitionKey(orderID), Value: value}
}

func TestHandle_AcceptsCompletedOrder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := New(zap.New(core))

	err := svc.Handle(context.Background(), completedOrderMessage(t, "evt-1", "ORD-1"))
	require.NoError(t, err)

	entries := logs.FilterMessage("order accepted for fulfillment").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ORD-1", entries[0].ContextMap()["order_id"])
}

func TestHandle_DeduplicatesByEventID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := New(zap.New(core))

	msg := completedOrderMessage(t, "evt-1", "ORD-1")
	require.NoError(t, svc.Handle(context.Background(), msg))
	require.NoError(t, svc.Handle(context.Background(), msg))

	assert.Len(t, logs.FilterMessage("order accepted for fulfillment").All(), 1)
	assert.Len(t, logs.FilterMessage("duplicate delivery, skipping").All(), 1)
}

func TestHandle_IgnoresOtherEventTypes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := New(zap.New(core))

	value, err := json.Marshal(events.Envelope{
		EventID:   "evt-2",
		EventType: "SomethingElse",
		Payload:   json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Handle(context.Background(), kafkago.Message{Value: value}))
	assert.Empty(t, logs.FilterMessage("order accepted for fulfillment").All())
}

func TestHandle_RejectsMalformedEnvelope(t *testing.T) {
	svc := New(zap.NewNop())
	err := svc.Handle(context.Background(), kafkago.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
