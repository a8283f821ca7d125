package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/booksandchill/storefront/internal/kv"
)

// Store keeps the visitor's favorite product IDs, persisted after every
// toggle. Like the cart, memory is authoritative and persistence
// failures degrade to session-only state.
type Store struct {
	mu    sync.Mutex
	ids   []string
	store kv.Store
	log   *zap.Logger
}

func NewStore(store kv.Store, log *zap.Logger) *Store {
	return &Store{store: store, log: log}
}

func (s *Store) Restore(ctx context.Context) error {
	b, ok, err := s.store.Load(ctx, kv.KeyFavorites)
	if err != nil {
		s.log.Warn("favorites restore degraded, starting empty", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return fmt.Errorf("decode persisted favorites: %w", err)
	}
	s.mu.Lock()
	s.ids = ids
	s.mu.Unlock()
	return nil
}

// Toggle adds productID to the favorites if absent, removes it if
// present, and reports whether it is now a favorite.
func (s *Store) Toggle(ctx context.Context, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := true
	kept := s.ids[:0]
	for _, id := range s.ids {
		if id == productID {
			added = false
			continue
		}
		kept = append(kept, id)
	}
	s.ids = kept
	if added {
		s.ids = append(s.ids, productID)
	}

	if b, err := json.Marshal(s.ids); err != nil {
		s.log.Error("encode favorites", zap.Error(err))
	} else if err := s.store.Save(ctx, kv.KeyFavorites, b); err != nil {
		s.log.Warn("favorites persistence degraded", zap.Error(err))
	}
	return added
}

func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.ids {
		if id == productID {
			return true
		}
	}
	return false
}
