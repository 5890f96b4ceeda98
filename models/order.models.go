package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order represents a placed order. Orders are created once at checkout and
// never updated by the storefront afterwards.
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	Total        float64            `bson:"total" json:"total"`
	Status       string             `bson:"status" json:"status"` // e.g. "paid"
	CustomerName string             `bson:"customer_name" json:"customer_name"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// OrderItem is one line of an order, priced at purchase time.
type OrderItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID     primitive.ObjectID `bson:"order_id" json:"order_id"`
	ProductID   primitive.ObjectID `bson:"product_id" json:"product_id"`
	ProductName string             `bson:"product_name" json:"product_name"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Price       float64            `bson:"price" json:"price"`
	ShippingFee float64            `bson:"shipping_fee" json:"shipping_fee"`
}

// CheckoutRequest carries the shipping form submitted at checkout.
type CheckoutRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Notes    string `json:"notes"`
}
