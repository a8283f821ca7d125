package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/booksandchill/storefront/internal/kv"
)

// LineItem aggregates one product in the cart. UnitPrice is the price
// snapshot taken at add time; later catalog price changes do not
// propagate into existing line items.
type LineItem struct {
	ProductID string  `json:"product_id"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Summary is the derived counters recomputed after every mutation for
// observers (cart badge, mini-cart).
type Summary struct {
	ItemCount  int     `json:"item_count"`
	TotalPrice float64 `json:"total_price"`
}

// Store owns the authoritative in-memory cart. Mutations are serialized
// by the mutex and written through to the kv store before returning;
// a failed write degrades to session-only persistence with a warning,
// it never fails the mutation.
type Store struct {
	mu       sync.Mutex
	items    []LineItem
	store    kv.Store
	log      *zap.Logger
	onChange func(Summary)
}

func NewStore(store kv.Store, log *zap.Logger) *Store {
	return &Store{store: store, log: log}
}

// OnChange registers a single observer notified with fresh counters
// after every mutation. Set before the store is shared.
func (s *Store) OnChange(fn func(Summary)) { s.onChange = fn }

// Restore loads the persisted cart, if any. Called once at startup;
// a missing or unreadable key leaves the cart empty.
func (s *Store) Restore(ctx context.Context) error {
	b, ok, err := s.store.Load(ctx, kv.KeyCart)
	if err != nil {
		s.log.Warn("cart restore degraded, starting empty", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var items []LineItem
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("decode persisted cart: %w", err)
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// AddItem appends a new line item or, if productID is already carted,
// increments its quantity. quantity <= 0 is rejected.
func (s *Store) AddItem(ctx context.Context, productID string, unitPrice float64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("add %s: %w", productID, ErrInvalidQuantity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if it := s.find(productID); it != nil {
		it.Quantity += quantity
	} else {
		s.items = append(s.items, LineItem{ProductID: productID, UnitPrice: unitPrice, Quantity: quantity})
	}
	s.afterMutation(ctx)
	return nil
}

// RemoveItem deletes the line item; absent IDs are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(s.items) {
		return
	}
	s.items = kept
	s.afterMutation(ctx)
}

// UpdateQuantity sets a carted item's quantity. newQuantity <= 0
// removes the line item; updating an ID that was never added is
// ErrItemNotFound (callers must AddItem first).
func (s *Store) UpdateQuantity(ctx context.Context, productID string, newQuantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := s.find(productID)
	if newQuantity <= 0 {
		if it == nil {
			return nil
		}
		kept := s.items[:0]
		for _, li := range s.items {
			if li.ProductID != productID {
				kept = append(kept, li)
			}
		}
		s.items = kept
		s.afterMutation(ctx)
		return nil
	}
	if it == nil {
		return fmt.Errorf("update %s: %w", productID, ErrItemNotFound)
	}
	it.Quantity = newQuantity
	s.afterMutation(ctx)
	return nil
}

// Snapshot returns an independent copy of the line items, safe to hand
// to a checkout session. Read-your-writes: always reflects the last
// completed mutation.
func (s *Store) Snapshot() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Clear empties the cart. Called after an order is finalized.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.afterMutation(ctx)
}

func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.items)
}

func (s *Store) find(productID string) *LineItem {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return &s.items[i]
		}
	}
	return nil
}

// afterMutation persists and notifies. Caller holds the mutex.
func (s *Store) afterMutation(ctx context.Context) {
	b, err := json.Marshal(s.items)
	if err != nil {
		s.log.Error("encode cart", zap.Error(err))
	} else if err := s.store.Save(ctx, kv.KeyCart, b); err != nil {
		// in-memory state stays authoritative
		s.log.Warn("cart persistence degraded", zap.Error(err))
	}
	if s.onChange != nil {
		s.onChange(summarize(s.items))
	}
}

func summarize(items []LineItem) Summary {
	var sum Summary
	for _, it := range items {
		sum.ItemCount += it.Quantity
	}
	sum.TotalPrice = Round2(Subtotal(items))
	return sum
}
