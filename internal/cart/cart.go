// Package cart implements the session shopping cart as a reducer over a
// closed set of actions. Invalid mutations (unknown product, out-of-stock
// product, non-positive quantity) leave the state untouched rather than
// returning an error; callers that need feedback read the state back.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/nawedy/melting-pot-plus/internal/model"
)

// ProductLookup is the read-only view of the catalog the cart validates
// against.
type ProductLookup interface {
	GetByID(id string) (*model.Product, bool)
}

type ActionType int

const (
	ActionAddItem ActionType = iota
	ActionRemoveItem
	ActionUpdateQuantity
	ActionClearCart
	ActionToggleCart
	ActionRecalculateTotal
)

type Action struct {
	Type      ActionType
	Item      model.CartItem // ActionAddItem
	ProductID string         // ActionRemoveItem, ActionUpdateQuantity
	Quantity  int            // ActionUpdateQuantity
}

type State struct {
	Items  []model.CartItem
	IsOpen bool
	Total  decimal.Decimal
}

func initialState() State {
	return State{Total: decimal.Zero}
}

func reduce(state State, action Action, products ProductLookup) State {
	switch action.Type {
	case ActionAddItem:
		product, ok := products.GetByID(action.Item.ProductID)
		if !ok || !product.InStock || action.Item.Quantity <= 0 {
			return state
		}
		items := cloneItems(state.Items)
		merged := false
		for i := range items {
			if items[i].ProductID == action.Item.ProductID {
				items[i].Quantity += action.Item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, action.Item)
		}
		state.Items = items
		state.Total = calculateTotal(items, products)
		return state

	case ActionRemoveItem:
		items := make([]model.CartItem, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ProductID != action.ProductID {
				items = append(items, item)
			}
		}
		state.Items = items
		state.Total = calculateTotal(items, products)
		return state

	case ActionUpdateQuantity:
		product, ok := products.GetByID(action.ProductID)
		if !ok || !product.InStock || action.Quantity <= 0 {
			return state
		}
		items := cloneItems(state.Items)
		for i := range items {
			if items[i].ProductID == action.ProductID {
				items[i].Quantity = action.Quantity
			}
		}
		state.Items = items
		state.Total = calculateTotal(items, products)
		return state

	case ActionClearCart:
		state.Items = nil
		state.Total = decimal.Zero
		return state

	case ActionToggleCart:
		state.IsOpen = !state.IsOpen
		return state

	case ActionRecalculateTotal:
		state.Total = calculateTotal(state.Items, products)
		return state
	}
	return state
}

// calculateTotal sums quantity × price over items whose product exists and is
// in stock. Items referencing missing or out-of-stock products contribute
// zero but stay in the list; stock can flip after an item was added and the
// selection is kept for the user.
func calculateTotal(items []model.CartItem, products ProductLookup) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		product, ok := products.GetByID(item.ProductID)
		if !ok || !product.InStock {
			continue
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func cloneItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	copy(out, items)
	return out
}

func itemsEqual(a, b []model.CartItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ProductID != b[i].ProductID || a[i].Quantity != b[i].Quantity {
			return false
		}
	}
	return true
}
