package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nawedy/melting-pot-plus/internal/kv"
	"github.com/nawedy/melting-pot-plus/internal/model"
)

type mockCatalog struct {
	products map[string]*model.Product
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{products: make(map[string]*model.Product)}
}

func (m *mockCatalog) add(id string, price string, inStock bool) {
	m.products[id] = &model.Product{
		ID:      id,
		Price:   decimal.RequireFromString(price),
		InStock: inStock,
	}
}

func (m *mockCatalog) GetByID(id string) (*model.Product, bool) {
	p, ok := m.products[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

func newTestStore(catalog *mockCatalog) *Store {
	return NewStore(catalog, kv.NewMemory(), "cart:test")
}

func TestStore_AddItem(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	store := newTestStore(catalog)

	require.NoError(t, store.AddItem(context.Background(), model.CartItem{ProductID: "p1", Quantity: 2}))

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("20.00")))
}

func TestStore_AddItem_OutOfStock(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", false)
	store := newTestStore(catalog)

	require.NoError(t, store.AddItem(context.Background(), model.CartItem{ProductID: "p1", Quantity: 3}))

	state := store.State()
	assert.Empty(t, state.Items)
	assert.True(t, state.Total.IsZero())
}

func TestStore_AddItem_UnknownProduct(t *testing.T) {
	store := newTestStore(newMockCatalog())

	require.NoError(t, store.AddItem(context.Background(), model.CartItem{ProductID: "ghost", Quantity: 1}))

	assert.Empty(t, store.State().Items)
}

func TestStore_AddItem_MergesQuantities(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	store := newTestStore(catalog)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 2}))
	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 3}))

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("50.00")))
}

func TestStore_UpdateQuantity_Replaces(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	store := newTestStore(catalog)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 2}))
	require.NoError(t, store.UpdateQuantity(ctx, "p1", 5))

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("50.00")))
}

func TestStore_UpdateQuantity_NonPositiveIsNoop(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	store := newTestStore(catalog)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 2}))
	require.NoError(t, store.UpdateQuantity(ctx, "p1", 0))
	require.NoError(t, store.UpdateQuantity(ctx, "p1", -1))

	assert.Equal(t, 2, store.State().Items[0].Quantity)
}

func TestStore_UpdateQuantity_OutOfStockIsNoop(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	store := newTestStore(catalog)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 2}))
	catalog.products["p1"].InStock = false
	require.NoError(t, store.UpdateQuantity(ctx, "p1", 7))

	assert.Equal(t, 2, store.State().Items[0].Quantity)
}

func TestStore_RemoveItem(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	catalog.add("p2", "4.50", true)
	store := newTestStore(catalog)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 1}))
	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p2", Quantity: 2}))
	require.NoError(t, store.RemoveItem(ctx, "p1"))

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "p2", state.Items[0].ProductID)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("9.00")))
}

func TestStore_RemoveItem_AbsentIsNoop(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	store := newTestStore(catalog)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 2}))
	require.NoError(t, store.RemoveItem(ctx, "ghost"))

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("20.00")))
}

func TestStore_Clear(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	store := newTestStore(catalog)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 2}))
	require.NoError(t, store.Clear(ctx))

	state := store.State()
	assert.Empty(t, state.Items)
	assert.True(t, state.Total.IsZero())
}

func TestStore_Toggle(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	store := newTestStore(catalog)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 1}))
	assert.False(t, store.State().IsOpen)

	require.NoError(t, store.Toggle(ctx))
	state := store.State()
	assert.True(t, state.IsOpen)
	require.Len(t, state.Items, 1)

	require.NoError(t, store.Toggle(ctx))
	assert.False(t, store.State().IsOpen)
}

// The open flag is part of the snapshot, so a store rebuilt for the next
// request sees the toggled value and a second toggle flips it back.
func TestStore_TogglePersistsAcrossLoads(t *testing.T) {
	catalog := newMockCatalog()
	snapshots := kv.NewMemory()
	ctx := context.Background()

	first := NewStore(catalog, snapshots, "cart:s1")
	require.NoError(t, first.Load(ctx))
	require.NoError(t, first.Toggle(ctx))
	assert.True(t, first.State().IsOpen)

	second := NewStore(catalog, snapshots, "cart:s1")
	require.NoError(t, second.Load(ctx))
	assert.True(t, second.State().IsOpen)
	require.NoError(t, second.Toggle(ctx))
	assert.False(t, second.State().IsOpen)

	third := NewStore(catalog, snapshots, "cart:s1")
	require.NoError(t, third.Load(ctx))
	assert.False(t, third.State().IsOpen)
}

// A product going out of stock after it was added prices its line at zero but
// keeps it listed.
func TestStore_StockFlip_ZeroesTotalKeepsItem(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	store := newTestStore(catalog)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 2}))
	require.NoError(t, store.UpdateQuantity(ctx, "p1", 5))
	assert.True(t, store.State().Total.Equal(decimal.RequireFromString("50.00")))

	catalog.products["p1"].InStock = false

	state := store.State()
	assert.True(t, state.Total.IsZero())
	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
}

func TestStore_MixedStockTotal(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	catalog.add("p2", "3.00", true)
	store := newTestStore(catalog)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 1}))
	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p2", Quantity: 4}))
	catalog.products["p2"].InStock = false

	assert.True(t, store.State().Total.Equal(decimal.RequireFromString("10.00")))
}

func TestStore_LoadReplaysSnapshot(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	catalog.add("p2", "5.00", true)
	snapshots := kv.NewMemory()
	ctx := context.Background()

	first := NewStore(catalog, snapshots, "cart:s1")
	require.NoError(t, first.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 2}))
	require.NoError(t, first.AddItem(ctx, model.CartItem{ProductID: "p2", Quantity: 1}))

	// p2 disappears from the catalog between sessions; replay drops it.
	delete(catalog.products, "p2")

	second := NewStore(catalog, snapshots, "cart:s1")
	require.NoError(t, second.Load(ctx))

	state := second.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "p1", state.Items[0].ProductID)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("20.00")))
}

func TestStore_LoadCorruptSnapshot(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	snapshots := kv.NewMemory()
	ctx := context.Background()

	require.NoError(t, snapshots.Set(ctx, "cart:s1", []byte("{not json")))

	store := NewStore(catalog, snapshots, "cart:s1")
	require.NoError(t, store.Load(ctx))
	assert.Empty(t, store.State().Items)

	// The broken snapshot is gone.
	data, err := snapshots.Get(ctx, "cart:s1")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestStore_PersistsOnItemChange(t *testing.T) {
	catalog := newMockCatalog()
	catalog.add("p1", "10.00", true)
	snapshots := kv.NewMemory()
	ctx := context.Background()

	store := NewStore(catalog, snapshots, "cart:s1")
	require.NoError(t, store.AddItem(ctx, model.CartItem{ProductID: "p1", Quantity: 2}))

	data, err := snapshots.Get(ctx, "cart:s1")
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.JSONEq(t, `{"items":[{"product_id":"p1","quantity":2}],"is_open":false}`, string(data))
}
