package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nawedy/melting-pot-plus/internal/kv"
	"github.com/nawedy/melting-pot-plus/internal/model"
)

// Store dispatches actions into the reducer for one session's cart and
// mirrors every item-list or open-flag change into the kv snapshot under the
// session key.
type Store struct {
	mu        sync.Mutex
	state     State
	products  ProductLookup
	snapshots kv.Store
	key       string
}

func NewStore(products ProductLookup, snapshots kv.Store, key string) *Store {
	return &Store{
		state:     initialState(),
		products:  products,
		snapshots: snapshots,
		key:       key,
	}
}

// snapshot is the persisted shape of a session's cart: the item list plus
// the panel-open flag.
type snapshot struct {
	Items  []model.CartItem `json:"items"`
	IsOpen bool             `json:"is_open"`
}

// Load rehydrates the cart from its snapshot. Each stored item is replayed
// through the add action, so entries for deleted or now-out-of-stock products
// re-validate against the current catalog and drop out. The open flag is
// restored as stored. A snapshot that no longer decodes is discarded.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.snapshots.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load cart snapshot: %w", err)
	}
	if data == nil {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		_ = s.snapshots.Clear(ctx, s.key)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range snap.Items {
		s.state = reduce(s.state, Action{Type: ActionAddItem, Item: item}, s.products)
	}
	s.state.IsOpen = snap.IsOpen
	return nil
}

func (s *Store) AddItem(ctx context.Context, item model.CartItem) error {
	return s.dispatch(ctx, Action{Type: ActionAddItem, Item: item})
}

func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	return s.dispatch(ctx, Action{Type: ActionRemoveItem, ProductID: productID})
}

func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return s.dispatch(ctx, Action{Type: ActionUpdateQuantity, ProductID: productID, Quantity: quantity})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.dispatch(ctx, Action{Type: ActionClearCart})
}

// Toggle flips the panel-open flag. The flag is part of the snapshot, so the
// new value survives into the next request for the session.
func (s *Store) Toggle(ctx context.Context) error {
	return s.dispatch(ctx, Action{Type: ActionToggleCart})
}

func (s *Store) GetProduct(productID string) (*model.Product, bool) {
	return s.products.GetByID(productID)
}

// State recomputes the total against current stock before returning, so a
// product that went out of stock since the last mutation is priced at zero.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, Action{Type: ActionRecalculateTotal}, s.products)
	out := s.state
	out.Items = cloneItems(s.state.Items)
	return out
}

func (s *Store) dispatch(ctx context.Context, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prevItems := s.state.Items
	prevOpen := s.state.IsOpen
	s.state = reduce(s.state, action, s.products)
	if itemsEqual(prevItems, s.state.Items) && prevOpen == s.state.IsOpen {
		return nil
	}
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	items := s.state.Items
	if items == nil {
		items = []model.CartItem{}
	}
	data, err := json.Marshal(snapshot{Items: items, IsOpen: s.state.IsOpen})
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := s.snapshots.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist cart snapshot: %w", err)
	}
	return nil
}
