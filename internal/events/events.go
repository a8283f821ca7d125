package events

import (
	"encoding/json"
	"time"

	"github.com/booksandchill/storefront/internal/cart"
	"github.com/booksandchill/storefront/internal/checkout"
)

const (
	EventOrderCompleted = "OrderCompleted"

	TopicOrderCompleted = "storefront.order.completed"
)

// Envelope is the versioned wrapper around every exported event.
type Envelope struct {
	EventID       string          `json:"event_id"` // uuid
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"` // RFC3339
	Producer      string          `json:"producer"`    // e.g., "storefront-api"
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderCompletedPayload struct {
	OrderID        string          `json:"order_id"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []cart.LineItem `json:"items"`
	ShippingMethod string          `json:"shipping_method"`
	Total          float64         `json:"total"`
}

func NewOrderCompletedPayload(o checkout.Order) OrderCompletedPayload {
	return OrderCompletedPayload{
		OrderID:        o.ID,
		CreatedAt:      o.CreatedAt,
		Items:          o.Items,
		ShippingMethod: string(o.Method),
		Total:          o.Total,
	}
}

// PartitionKey keys messages by order id so one order's events keep
// their relative order on the topic.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
