package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/booksandchill/storefront/internal/cart"
	"github.com/booksandchill/storefront/internal/kv"
)

// Order is created atomically at checkout completion and immutable
// thereafter. Total is frozen at creation and never recomputed.
type Order struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []cart.LineItem `json:"items"`
	Shipping  ShippingInfo    `json:"shipping"`
	Method    Method          `json:"shipping_method"`
	Total     float64         `json:"total"`
}

func newOrderID(now time.Time) string {
	return "ORD-" + strconv.FormatInt(now.UnixMilli(), 10)
}

func loadOrders(ctx context.Context, store kv.Store) ([]Order, error) {
	b, ok, err := store.Load(ctx, kv.KeyOrders)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var orders []Order
	if err := json.Unmarshal(b, &orders); err != nil {
		return nil, fmt.Errorf("decode order history: %w", err)
	}
	return orders, nil
}

func appendOrder(ctx context.Context, store kv.Store, o Order) error {
	orders, err := loadOrders(ctx, store)
	if err != nil {
		return err
	}
	orders = append(orders, o)
	b, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("encode order history: %w", err)
	}
	return store.Save(ctx, kv.KeyOrders, b)
}
