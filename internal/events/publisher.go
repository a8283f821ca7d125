package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/booksandchill/storefront/internal/checkout"
)

// Sink is the transport the publisher writes envelopes to; in
// production it is the kafka producer.
type Sink interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Publisher wraps finalized orders into OrderCompleted envelopes. It
// implements checkout.OrderPublisher.
type Publisher struct {
	sink     Sink
	producer string
}

func NewPublisher(sink Sink, producerName string) *Publisher {
	return &Publisher{sink: sink, producer: producerName}
}

func (p *Publisher) PublishOrderCompleted(_ context.Context, o checkout.Order) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCompleted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.producer,
		CorrelationID: o.ID,
		Payload:       mustMarshal(NewOrderCompletedPayload(o)),
	}
	p.sink.Publish(PartitionKey(o.ID), mustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderCompleted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
