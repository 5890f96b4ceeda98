package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func product(price, shipping float64, stock int) Product {
	return Product{
		ID:          primitive.NewObjectID(),
		Name:        "Test Product",
		Price:       price,
		ShippingFee: shipping,
		Stock:       stock,
	}
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 5, ClampQuantity(5, 10))
	assert.Equal(t, 10, ClampQuantity(13, 10))
	assert.Equal(t, 1, ClampQuantity(0, 10))
	assert.Equal(t, 1, ClampQuantity(-3, 10))
}

func TestAddItemNeverExceedsStock(t *testing.T) {
	p := product(100, 0, 10)
	cart := Cart{}

	assert.True(t, cart.AddItem(p.ID, 8, p.Stock))
	assert.Equal(t, 8, cart.Items[0].Quantity)

	// 8 + 5 clamps to stock, not 13
	assert.True(t, cart.AddItem(p.ID, 5, p.Stock))
	assert.Equal(t, 10, cart.Items[0].Quantity)

	// already at the cap: no state change
	assert.False(t, cart.AddItem(p.ID, 1, p.Stock))
	assert.Equal(t, 10, cart.Items[0].Quantity)
	assert.Len(t, cart.Items, 1)
}

func TestAddItemMergesLines(t *testing.T) {
	a := product(100, 0, 10)
	b := product(150, 0, 5)
	cart := Cart{}

	cart.AddItem(a.ID, 2, a.Stock)
	cart.AddItem(b.ID, 1, b.Stock)
	cart.AddItem(a.ID, 3, a.Stock)

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 1, cart.Items[1].Quantity)
}

func TestSetQuantityClampsAndRemoves(t *testing.T) {
	p := product(100, 0, 10)
	cart := Cart{}
	cart.AddItem(p.ID, 2, p.Stock)

	cart.SetQuantity(p.ID, 25, p.Stock)
	assert.Equal(t, 10, cart.Items[0].Quantity)

	cart.SetQuantity(p.ID, 3, p.Stock)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// zero or negative means remove
	cart.SetQuantity(p.ID, 0, p.Stock)
	assert.Empty(t, cart.Items)
}

func TestSetQuantityRemovesWhenOutOfStock(t *testing.T) {
	p := product(100, 0, 10)
	cart := Cart{}
	cart.AddItem(p.ID, 3, p.Stock)

	// stock has since dropped to zero: no quantity can stay within it
	cart.SetQuantity(p.ID, 5, 0)
	assert.Empty(t, cart.Items)
}

func TestAddItemOutOfStockChangesNothing(t *testing.T) {
	p := product(100, 0, 0)
	cart := Cart{}

	assert.False(t, cart.AddItem(p.ID, 1, p.Stock))
	assert.Empty(t, cart.Items)
}

func TestRemoveThenReAddStartsFresh(t *testing.T) {
	p := product(100, 0, 10)
	cart := Cart{}
	cart.AddItem(p.ID, 7, p.Stock)
	cart.RemoveItem(p.ID)
	assert.Empty(t, cart.Items)

	cart.AddItem(p.ID, 2, p.Stock)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestBuildCartViewTotals(t *testing.T) {
	a := product(100, 10, 10)
	b := product(150, 5, 5)
	cart := Cart{}
	cart.AddItem(a.ID, 2, a.Stock)
	cart.AddItem(b.ID, 1, b.Stock)

	view := BuildCartView(cart, map[primitive.ObjectID]Product{a.ID: a, b.ID: b})

	assert.Equal(t, 350.0, view.Subtotal)
	assert.Equal(t, 25.0, view.ShippingFee)
	assert.Equal(t, 3, view.TotalItems)
	assert.Len(t, view.Items, 2)
}

func TestBuildCartViewDropsMissingProducts(t *testing.T) {
	a := product(100, 0, 10)
	gone := primitive.NewObjectID()
	cart := Cart{Items: []CartItem{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: gone, Quantity: 4},
	}}

	view := BuildCartView(cart, map[primitive.ObjectID]Product{a.ID: a})

	assert.Len(t, view.Items, 1)
	assert.Equal(t, 100.0, view.Subtotal)
	assert.Equal(t, 1, view.TotalItems)
}

func TestBuildCartViewEmptyCart(t *testing.T) {
	view := BuildCartView(Cart{}, nil)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Subtotal)
	assert.Zero(t, view.ShippingFee)
	assert.Zero(t, view.TotalItems)
}
