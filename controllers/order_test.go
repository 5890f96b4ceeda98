package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"enyskin-api/middleware"
	"enyskin-api/models"
	"enyskin-api/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func validCheckout() models.CheckoutRequest {
	return models.CheckoutRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Address:  "1 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62704",
	}
}

func TestMissingCheckoutField(t *testing.T) {
	assert.Equal(t, "", missingCheckoutField(validCheckout()))

	req := validCheckout()
	req.FullName = ""
	assert.Equal(t, "full_name", missingCheckoutField(req))

	req = validCheckout()
	req.ZipCode = ""
	assert.Equal(t, "zip_code", missingCheckoutField(req))

	// notes are optional
	req = validCheckout()
	req.Notes = ""
	assert.Equal(t, "", missingCheckoutField(req))
}

func TestProductListCacheKey(t *testing.T) {
	assert.Equal(t, "products", productListCacheKey("", false, 0))
	assert.Equal(t, "products:category=serums&featured=false&limit=0", productListCacheKey("serums", false, 0))
	assert.Equal(t, "products:category=&featured=true&limit=4", productListCacheKey("", true, 4))
}

func checkoutRequest(t *testing.T) *http.Request {
	body, err := json.Marshal(validCheckout())
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/checkout", bytes.NewReader(body))
	claims := &utils.Claims{Email: "jane@example.com", Role: "user"}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func userDoc(id primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "email", Value: "jane@example.com"},
		{Key: "role", Value: "user"},
		{Key: "is_verified", Value: true},
	}
}

func productDoc(id primitive.ObjectID, name string, price float64, stock int, shipping float64) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "price", Value: price},
		{Key: "stock", Value: stock},
		{Key: "shipping_fee", Value: shipping},
	}
}

func cartDoc(userID primitive.ObjectID, items ...bson.D) bson.D {
	lines := bson.A{}
	for _, item := range items {
		lines = append(lines, item)
	}
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "user_id", Value: userID},
		{Key: "items", Value: lines},
	}
}

func cartLine(productID primitive.ObjectID, qty int) bson.D {
	return bson.D{
		{Key: "product_id", Value: productID},
		{Key: "quantity", Value: qty},
	}
}

// placeRecorder swaps the transactional write out for a recorder so the
// checkout handler can run against mock reads.
type placeRecorder struct {
	orders []models.Order
	items  [][]models.OrderItem
}

func (p *placeRecorder) place(ctx context.Context, order models.Order, items []models.OrderItem) error {
	p.orders = append(p.orders, order)
	p.items = append(p.items, items)
	return nil
}

func TestCheckout(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID := primitive.NewObjectID()

	mt.Run("empty cart performs no writes", func(mt *mtest.T) {
		oc := NewOrderController(mt.Client, &utils.EmailService{})
		recorder := &placeRecorder{}
		oc.placeOrder = recorder.place

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, utils.DatabaseName+".users", mtest.FirstBatch, userDoc(userID)),
			// no cart document exists
			mtest.CreateCursorResponse(0, utils.DatabaseName+".carts", mtest.FirstBatch),
		)

		rec := httptest.NewRecorder()
		oc.Checkout(rec, checkoutRequest(mt.T))

		assert.Equal(mt, http.StatusBadRequest, rec.Code)
		assert.Empty(mt, recorder.orders)
		for _, evt := range mt.GetAllStartedEvents() {
			assert.NotContains(mt, []string{"insert", "update", "delete"}, evt.CommandName)
		}
	})

	mt.Run("two line cart places one order with two item rows", func(mt *mtest.T) {
		oc := NewOrderController(mt.Client, &utils.EmailService{})
		recorder := &placeRecorder{}
		oc.placeOrder = recorder.place

		a := primitive.NewObjectID()
		b := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, utils.DatabaseName+".users", mtest.FirstBatch, userDoc(userID)),
			mtest.CreateCursorResponse(0, utils.DatabaseName+".carts", mtest.FirstBatch,
				cartDoc(userID, cartLine(a, 2), cartLine(b, 1))),
			mtest.CreateCursorResponse(0, utils.DatabaseName+".products", mtest.FirstBatch,
				productDoc(a, "Day Cream", 100, 10, 10),
				productDoc(b, "Serum", 150, 5, 5)),
			// cart clear after the order is placed
			mtest.CreateSuccessResponse(),
		)

		rec := httptest.NewRecorder()
		oc.Checkout(rec, checkoutRequest(mt.T))

		require.Equal(mt, http.StatusCreated, rec.Code)
		require.Len(mt, recorder.orders, 1)
		require.Len(mt, recorder.items, 1)
		require.Len(mt, recorder.items[0], 2)

		order := recorder.orders[0]
		assert.Equal(mt, userID, order.UserID)
		assert.Equal(mt, "paid", order.Status)
		assert.Equal(mt, "Jane Doe", order.CustomerName)
		// subtotal 350 + shipping 25
		assert.Equal(mt, 375.0, order.Total)

		for _, item := range recorder.items[0] {
			assert.Equal(mt, order.ID, item.OrderID)
			assert.False(mt, item.ID.IsZero())
		}
		assert.Equal(mt, "Day Cream", recorder.items[0][0].ProductName)
		assert.Equal(mt, 2, recorder.items[0][0].Quantity)
		assert.Equal(mt, 100.0, recorder.items[0][0].Price)
		assert.Equal(mt, "Serum", recorder.items[0][1].ProductName)
		assert.Equal(mt, 1, recorder.items[0][1].Quantity)

		var resp map[string]interface{}
		require.NoError(mt, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(mt, order.ID.Hex(), resp["order_id"])
	})

	mt.Run("line for a deleted product is skipped", func(mt *mtest.T) {
		oc := NewOrderController(mt.Client, &utils.EmailService{})
		recorder := &placeRecorder{}
		oc.placeOrder = recorder.place

		a := primitive.NewObjectID()
		gone := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, utils.DatabaseName+".users", mtest.FirstBatch, userDoc(userID)),
			mtest.CreateCursorResponse(0, utils.DatabaseName+".carts", mtest.FirstBatch,
				cartDoc(userID, cartLine(a, 1), cartLine(gone, 4))),
			// only the surviving product comes back
			mtest.CreateCursorResponse(0, utils.DatabaseName+".products", mtest.FirstBatch,
				productDoc(a, "Day Cream", 100, 10, 10)),
			mtest.CreateSuccessResponse(),
		)

		rec := httptest.NewRecorder()
		oc.Checkout(rec, checkoutRequest(mt.T))

		require.Equal(mt, http.StatusCreated, rec.Code)
		require.Len(mt, recorder.orders, 1)
		require.Len(mt, recorder.items[0], 1)
		assert.Equal(mt, "Day Cream", recorder.items[0][0].ProductName)
		assert.Equal(mt, 110.0, recorder.orders[0].Total)
	})

	mt.Run("cart holding only deleted products performs no writes", func(mt *mtest.T) {
		oc := NewOrderController(mt.Client, &utils.EmailService{})
		recorder := &placeRecorder{}
		oc.placeOrder = recorder.place

		gone := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, utils.DatabaseName+".users", mtest.FirstBatch, userDoc(userID)),
			mtest.CreateCursorResponse(0, utils.DatabaseName+".carts", mtest.FirstBatch,
				cartDoc(userID, cartLine(gone, 2))),
			mtest.CreateCursorResponse(0, utils.DatabaseName+".products", mtest.FirstBatch),
		)

		rec := httptest.NewRecorder()
		oc.Checkout(rec, checkoutRequest(mt.T))

		assert.Equal(mt, http.StatusBadRequest, rec.Code)
		assert.Empty(mt, recorder.orders)
		for _, evt := range mt.GetAllStartedEvents() {
			assert.NotContains(mt, []string{"insert", "update", "delete"}, evt.CommandName)
		}
	})
}
