package controllers

import (
	"context"
	"encoding/json"
	"enyskin-api/middleware"
	"enyskin-api/models"
	"enyskin-api/utils"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartController handles cart-related requests
type CartController struct {
	Collection        *mongo.Collection
	ProductCollection *mongo.Collection
	UserCollection    *mongo.Collection
}

// NewCartController creates a new CartController
func NewCartController(client *mongo.Client) *CartController {
	db := client.Database(utils.DatabaseName)
	return &CartController{
		Collection:        db.Collection("carts"),
		ProductCollection: db.Collection("products"),
		UserCollection:    db.Collection("users"),
	}
}

func (cc *CartController) currentUser(ctx context.Context, r *http.Request) (models.User, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		return models.User{}, false
	}
	var user models.User
	err := cc.UserCollection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user)
	if err != nil {
		return models.User{}, false
	}
	return user, true
}

func (cc *CartController) saveCart(ctx context.Context, cart models.Cart) error {
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
		_, err := cc.Collection.InsertOne(ctx, cart)
		return err
	}
	_, err := cc.Collection.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{"items": cart.Items}})
	return err
}

// loadCart returns the user's cart, or an empty unsaved cart when none
// exists yet.
func (cc *CartController) loadCart(ctx context.Context, userID primitive.ObjectID) models.Cart {
	var cart models.Cart
	err := cc.Collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		return models.Cart{UserID: userID, Items: []models.CartItem{}}
	}
	return cart
}

func (cc *CartController) cartView(ctx context.Context, cart models.Cart) (models.CartView, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products := map[primitive.ObjectID]models.Product{}
	if len(ids) > 0 {
		cursor, err := cc.ProductCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return models.CartView{}, err
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var product models.Product
			if err := cursor.Decode(&product); err != nil {
				return models.CartView{}, err
			}
			products[product.ID] = product
		}
		if err := cursor.Err(); err != nil {
			return models.CartView{}, err
		}
	}

	return models.BuildCartView(cart, products), nil
}

// GetCart retrieves the user's cart with derived totals
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := cc.currentUser(ctx, r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	view, err := cc.cartView(ctx, cc.loadCart(ctx, user.ID))
	if err != nil {
		http.Error(w, "Error reading cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// AddToCart merges a product into the user's cart, clamping the quantity
// to the product's stock. Adding past the cap changes nothing and the
// response says so.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	if body.Quantity < 1 {
		body.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := cc.currentUser(ctx, r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var product models.Product
	err = cc.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if product.Stock < 1 {
		http.Error(w, "Product is out of stock", http.StatusBadRequest)
		return
	}

	cart := cc.loadCart(ctx, user.ID)
	if !cart.AddItem(productID, body.Quantity, product.Stock) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Maximum stock reached"})
		return
	}

	if err := cc.saveCart(ctx, cart); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Item added to cart"})
}

// UpdateQuantity sets the quantity for a cart line, clamped to [1, stock].
// A quantity of zero or less removes the line.
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["product_id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := cc.currentUser(ctx, r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var product models.Product
	err = cc.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	cart := cc.loadCart(ctx, user.ID)
	cart.SetQuantity(productID, body.Quantity, product.Stock)

	if err := cc.saveCart(ctx, cart); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Cart updated"})
}

// RemoveFromCart removes a product from the user's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["product_id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := cc.currentUser(ctx, r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cart := cc.loadCart(ctx, user.ID)
	cart.RemoveItem(productID)

	if err := cc.saveCart(ctx, cart); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Item removed from cart"})
}

// ClearCart empties the user's cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := cc.currentUser(ctx, r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	_, err := cc.Collection.DeleteOne(ctx, bson.M{"user_id": user.ID})
	if err != nil {
		http.Error(w, "Error clearing cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Cart cleared"})
}
