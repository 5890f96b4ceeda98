package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents one line in a cart: a product reference and a quantity.
// The invariant 1 <= quantity <= product stock is maintained by clamping on
// every mutation, never by rejecting the request.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart represents a user's shopping cart
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items  []CartItem         `bson:"items" json:"items"`
}

// ClampQuantity caps a requested quantity to [1, stock].
func ClampQuantity(qty, stock int) int {
	if qty > stock {
		qty = stock
	}
	if qty < 1 {
		qty = 1
	}
	return qty
}

// AddItem merges qty into any existing line for the product, clamping the
// merged quantity to stock. Returns false when the line was already at the
// stock cap and nothing changed; the caller surfaces a "maximum stock
// reached" notice in that case.
func (c *Cart) AddItem(productID primitive.ObjectID, qty, stock int) bool {
	if stock < 1 {
		return false
	}
	for i, item := range c.Items {
		if item.ProductID == productID {
			merged := ClampQuantity(item.Quantity+qty, stock)
			if merged == item.Quantity {
				return false
			}
			c.Items[i].Quantity = merged
			return true
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: ClampQuantity(qty, stock)})
	return true
}

// SetQuantity clamps qty to [1, stock] for the given line. A request for
// qty <= 0 removes the line, as does a product whose stock has dropped to
// zero: no quantity can satisfy 1 <= quantity <= stock then.
func (c *Cart) SetQuantity(productID primitive.ObjectID, qty, stock int) {
	if qty <= 0 || stock < 1 {
		c.RemoveItem(productID)
		return
	}
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items[i].Quantity = ClampQuantity(qty, stock)
			return
		}
	}
}

// RemoveItem deletes the line for the given product, if present.
func (c *Cart) RemoveItem(productID primitive.ObjectID) {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	c.Items = items
}

// CartLine pairs a cart line with its product for display.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartView is the cart as served to clients, with totals derived from the
// full line list on every read.
type CartView struct {
	Items       []CartLine `json:"items"`
	Subtotal    float64    `json:"subtotal"`
	ShippingFee float64    `json:"shipping_fee"`
	TotalItems  int        `json:"total_items"`
}

// BuildCartView joins cart lines against their products and computes the
// derived totals. Lines whose product no longer exists are dropped.
func BuildCartView(cart Cart, products map[primitive.ObjectID]Product) CartView {
	view := CartView{Items: []CartLine{}}
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		view.Items = append(view.Items, CartLine{Product: product, Quantity: item.Quantity})
		view.Subtotal += product.Price * float64(item.Quantity)
		view.ShippingFee += product.ShippingFee * float64(item.Quantity)
		view.TotalItems += item.Quantity
	}
	return view
}
