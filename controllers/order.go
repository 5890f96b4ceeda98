// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"enyskin-api/middleware"
	"enyskin-api/models"
	"enyskin-api/utils"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderController handles checkout and order reads
type OrderController struct {
	Client              *mongo.Client
	OrderCollection     *mongo.Collection
	OrderItemCollection *mongo.Collection
	CartCollection      *mongo.Collection
	ProductCollection   *mongo.Collection
	UserCollection      *mongo.Collection
	EmailService        *utils.EmailService

	placeOrder func(ctx context.Context, order models.Order, items []models.OrderItem) error
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, emailService *utils.EmailService) *OrderController {
	db := client.Database(utils.DatabaseName)
	oc := &OrderController{
		Client:              client,
		OrderCollection:     db.Collection("orders"),
		OrderItemCollection: db.Collection("order_items"),
		CartCollection:      db.Collection("carts"),
		ProductCollection:   db.Collection("products"),
		UserCollection:      db.Collection("users"),
		EmailService:        emailService,
	}
	oc.placeOrder = oc.placeOrderTxn
	return oc
}

// placeOrderTxn writes the order, its item rows and the stock decrements
// in a single transaction; a failure anywhere aborts the whole write.
func (oc *OrderController) placeOrderTxn(ctx context.Context, order models.Order, items []models.OrderItem) error {
	session, err := oc.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := oc.OrderCollection.InsertOne(sc, order); err != nil {
			return nil, err
		}
		for _, item := range items {
			if _, err := oc.OrderItemCollection.InsertOne(sc, item); err != nil {
				return nil, err
			}
			result, err := oc.ProductCollection.UpdateOne(sc,
				bson.M{"_id": item.ProductID, "stock": bson.M{"$gte": item.Quantity}},
				bson.M{"$inc": bson.M{"stock": -item.Quantity}},
			)
			if err != nil {
				return nil, err
			}
			if result.MatchedCount == 0 {
				return nil, fmt.Errorf("insufficient stock for product %s", item.ProductName)
			}
		}
		return nil, nil
	})
	return err
}

// missingCheckoutField returns the name of the first required shipping
// field that is empty, or "" when the form is complete.
func missingCheckoutField(req models.CheckoutRequest) string {
	switch {
	case req.FullName == "":
		return "full_name"
	case req.Email == "":
		return "email"
	case req.Address == "":
		return "address"
	case req.City == "":
		return "city"
	case req.State == "":
		return "state"
	case req.ZipCode == "":
		return "zip_code"
	}
	return ""
}

// Checkout places an order from the user's cart: one order row plus one
// order-item row per cart line, written in a single transaction, with the
// stock check and decrement in the same transaction. The notification
// emails are best-effort and never block the order.
func (oc *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if field := missingCheckoutField(req); field != "" {
		http.Error(w, fmt.Sprintf("Missing required field: %s", field), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := oc.UserCollection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	var cart models.Cart
	err = oc.CartCollection.FindOne(ctx, bson.M{"user_id": user.ID}).Decode(&cart)
	if err != nil || len(cart.Items) == 0 {
		// Nothing is written for an empty cart.
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}

	// Price the cart from current product data.
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	cursor, err := oc.ProductCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}
	products := map[primitive.ObjectID]models.Product{}
	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}
	for _, p := range list {
		products[p.ID] = p
	}

	var subtotal, shippingFee float64
	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			// Products deleted since the line was added are dropped from
			// the cart view, so drop them from the order too.
			continue
		}
		if product.Stock < item.Quantity {
			http.Error(w, fmt.Sprintf("Insufficient stock for product: %s", product.Name), http.StatusBadRequest)
			return
		}
		subtotal += product.Price * float64(item.Quantity)
		shippingFee += product.ShippingFee * float64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
			ShippingFee: product.ShippingFee,
		})
	}
	if len(orderItems) == 0 {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}
	total := subtotal + shippingFee

	order := models.Order{
		ID:           primitive.NewObjectID(),
		UserID:       user.ID,
		Total:        total,
		Status:       "paid", // no payment authorization step exists
		CustomerName: req.FullName,
		CreatedAt:    time.Now(),
	}

	for i := range orderItems {
		orderItems[i].ID = primitive.NewObjectID()
		orderItems[i].OrderID = order.ID
	}

	if err := oc.placeOrder(ctx, order, orderItems); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID.Hex()).Error("checkout transaction failed")
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
		return
	}

	// Clear the user's cart
	if _, err := oc.CartCollection.DeleteOne(ctx, bson.M{"user_id": user.ID}); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID.Hex()).Warn("failed to clear cart after checkout")
	}

	// Notify operator and customer, best-effort.
	notification := utils.OrderNotification{
		ToEmail:     os.Getenv("ORDER_NOTIFY_EMAIL"),
		FromName:    req.FullName,
		FromEmail:   req.Email,
		Address:     fmt.Sprintf("%s, %s, %s, %s", req.Address, req.City, req.State, req.ZipCode),
		Total:       total,
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Notes:       req.Notes,
	}
	for _, item := range orderItems {
		notification.OrderDetails = append(notification.OrderDetails, utils.OrderEmailItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			ShippingFee: item.ShippingFee,
		})
	}
	go func(n utils.OrderNotification, orderID string) {
		if err := oc.EmailService.SendOrderEmails(n); err != nil {
			logrus.WithError(err).WithField("order_id", orderID).Error("failed to send order emails")
		}
	}(notification, order.ID.Hex())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"order_id": order.ID.Hex(),
		"total":    total,
		"message":  "Order placed successfully",
	})
}

// orderWithItems joins an order with its item rows for the confirmation
// and admin detail views.
type orderWithItems struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

func (oc *OrderController) loadOrder(ctx context.Context, orderID primitive.ObjectID) (orderWithItems, error) {
	var out orderWithItems
	if err := oc.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&out.Order); err != nil {
		return out, err
	}
	cursor, err := oc.OrderItemCollection.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return out, err
	}
	out.Items = []models.OrderItem{}
	if err := cursor.All(ctx, &out.Items); err != nil {
		return out, err
	}
	return out, nil
}

// GetOrder retrieves one order with its items. Users can read their own
// orders; admins can read any.
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.loadOrder(ctx, orderID)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	if claims.Role != "admin" {
		var user models.User
		if err := oc.UserCollection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user); err != nil {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		if order.UserID != user.ID {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// GetOrders retrieves all orders for the authenticated user, newest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := oc.UserCollection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := oc.OrderCollection.Find(ctx, bson.M{"user_id": user.ID}, opts)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// ListOrders retrieves all orders, newest first (Admin only)
func (oc *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := oc.OrderCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}
