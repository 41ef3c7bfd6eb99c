package domain

import "time"

// DefaultQuantity is used when a cart add does not name a quantity.
const DefaultQuantity = 1

// CartItem is one line of an anonymous session cart.
// ProductID is a weak reference: it is resolved on read, never owned.
type CartItem struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCartItem is an add-to-cart request. A zero Quantity means DefaultQuantity.
type NewCartItem struct {
	SessionID string
	ProductID string
	Quantity  int
}

// EffectiveQuantity returns the quantity to add.
func (n NewCartItem) EffectiveQuantity() int {
	if n.Quantity == 0 {
		return DefaultQuantity
	}
	return n.Quantity
}

// CartLine is a cart item joined with the product it references.
type CartLine struct {
	CartItem
	Product Product `json:"product"`
}
