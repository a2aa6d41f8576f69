// Package cart holds the session-scoped shopping cart value object.
package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line. Name, price and image are snapshots taken when the
// product was first added and are not refreshed on later adds.
type Item struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// Subtotal is Price x Quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an immutable list of items. Every mutator returns a new Cart.
type Cart struct {
	items []Item
}

// New builds a cart from items, dropping lines with non-positive quantity
func New(items ...Item) Cart {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return Cart{items: out}
}

// Items returns a copy of the cart lines in insertion order
func (c Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Quantity returns the quantity held for a product
func (c Cart) Quantity(productID uuid.UUID) int {
	for _, it := range c.items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// Count is the total number of units in the cart
func (c Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Total is the sum of line subtotals
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Add appends item, or sums quantities when the product is already present.
// Existing snapshots are kept.
func (c Cart) Add(item Item) Cart {
	if item.Quantity <= 0 {
		return c
	}
	items := c.Items()
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			return Cart{items: items}
		}
	}
	return Cart{items: append(items, item)}
}

// UpdateQuantities sets new quantities by product. Lines whose quantity
// becomes zero or less are removed; unknown products are ignored.
func (c Cart) UpdateQuantities(quantities map[uuid.UUID]int) Cart {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if q, ok := quantities[it.ProductID]; ok {
			it.Quantity = q
		}
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return Cart{items: out}
}

// Remove drops the line for productID
func (c Cart) Remove(productID uuid.UUID) Cart {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return Cart{items: out}
}

// Store persists carts keyed by session identity
type Store interface {
	// Load returns the session cart, or an empty cart when none is stored
	Load(ctx context.Context, sessionID string) (Cart, error)
	Save(ctx context.Context, sessionID string, c Cart) error
	Delete(ctx context.Context, sessionID string) error
}
