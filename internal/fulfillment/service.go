package fulfillment

import (
	"context"
	"sync"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/booksandchill/storefront/internal/events"
	kafkax "github.com/booksandchill/storefront/internal/kafka"
)

// Service consumes completed orders and hands them to fulfillment.
// Events are deduplicated by event id, so a partition rebalance that
// redelivers messages never ships an order twice.
type Service struct {
	Log *zap.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

func New(log *zap.Logger) *Service {
	return &Service{Log: log, seen: make(map[string]struct{})}
}

func (s *Service) Handle(_ context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != events.EventOrderCompleted {
		s.Log.Debug("skipping event", zap.String("event_type", env.EventType))
		return nil
	}
	if s.duplicate(env.EventID) {
		s.Log.Info("duplicate delivery, skipping", zap.String("event_id", env.EventID))
		return nil
	}

	payload, err := kafkax.UnwrapPayload[events.OrderCompletedPayload](env.Payload)
	if err != nil {
		return err
	}
	s.Log.Info("order accepted for fulfillment",
		zap.String("order_id", payload.OrderID),
		zap.String("shipping_method", payload.ShippingMethod),
		zap.Int("line_items", len(payload.Items)),
		zap.Float64("total", payload.Total),
	)
	return nil
}

func (s *Service) duplicate(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[eventID]; ok {
		return true
	}
	s.seen[eventID] = struct{}{}
	return false
}
