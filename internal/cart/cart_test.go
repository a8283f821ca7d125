package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/booksandchill/storefront/internal/kv"
)

func newTestStore(t *testing.T) (*Store, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	return NewStore(mem, zap.NewNop()), mem
}

func TestAddItem_ConflatesSameProduct(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "bk-001", 18.50, 2))
	require.NoError(t, s.AddItem(ctx, "bk-001", 18.50, 3))

	items := s.Snapshot()
	require.Len(t, items, 1, "repeated additions must not duplicate the line item")
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.AddItem(ctx, "bk-001", 18.50, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, s.AddItem(ctx, "bk-001", 18.50, -1), ErrInvalidQuantity)
	assert.Empty(t, s.Snapshot(), "rejected mutation must leave state unchanged")
}

func TestAddItem_KeepsPriceSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "bk-001", 18.50, 1))
	// second add with a different catalog price still conflates; the
	// original snapshot price stays
	require.NoError(t, s.AddItem(ctx, "bk-001", 21.00, 1))

	items := s.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 18.50, items[0].UnitPrice)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRemoveItem_AbsentIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "bk-001", 18.50, 1))
	s.RemoveItem(ctx, "bk-404")
	assert.Len(t, s.Snapshot(), 1)
}

func TestUpdateQuantity_ZeroEqualsRemove(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "bk-001", 18.50, 2))
	require.NoError(t, s.AddItem(ctx, "bk-002", 24.99, 1))

	require.NoError(t, s.UpdateQuantity(ctx, "bk-001", 0))
	s.RemoveItem(ctx, "bk-002")

	assert.Empty(t, s.Snapshot())
}

func TestUpdateQuantity_AbsentItem(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.UpdateQuantity(ctx, "bk-404", 3), ErrItemNotFound)
	// <= 0 on an absent item is equivalent to RemoveItem: a no-op
	assert.NoError(t, s.UpdateQuantity(ctx, "bk-404", 0))
}

func TestUpdateQuantity_SetsValue(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "bk-001", 18.50, 2))
	require.NoError(t, s.UpdateQuantity(ctx, "bk-001", 7))

	items := s.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "bk-001", 18.50, 2))
	snap := s.Snapshot()
	snap[0].Quantity = 99

	assert.Equal(t, 2, s.Snapshot()[0].Quantity)
}

func TestMutations_WriteThrough(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "bk-001", 18.50, 2))

	b, ok, err := mem.Load(ctx, kv.KeyCart)
	require.NoError(t, err)
	require.True(t, ok)

	var persisted []LineItem
	require.NoError(t, json.Unmarshal(b, &persisted))
	assert.Equal(t, s.Snapshot(), persisted)
}

func TestMutations_SurviveDegradedPersistence(t *testing.T) {
	s, mem := newTestStore(t)
	mem.FailSaves = true
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "bk-001", 18.50, 2))
	assert.Equal(t, 2, s.Snapshot()[0].Quantity, "in-memory state stays authoritative")
}

func TestRestore_RoundTrip(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "bk-001", 18.50, 2))
	require.NoError(t, s.AddItem(ctx, "bk-002", 24.99, 1))

	fresh := NewStore(mem, zap.NewNop())
	require.NoError(t, fresh.Restore(ctx))
	assert.Equal(t, s.Snapshot(), fresh.Snapshot())
}

func TestOnChange_RecomputesCounters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var last Summary
	s.OnChange(func(sum Summary) { last = sum })

	require.NoError(t, s.AddItem(ctx, "bk-001", 18.50, 2))
	assert.Equal(t, Summary{ItemCount: 2, TotalPrice: 37.0}, last)

	require.NoError(t, s.AddItem(ctx, "bk-002", 24.99, 1))
	assert.Equal(t, Summary{ItemCount: 3, TotalPrice: 61.99}, last)

	s.Clear(ctx)
	assert.Equal(t, Summary{}, last)
}
