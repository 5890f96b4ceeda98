package controllers

import (
	"context"
	"encoding/json"
	"enyskin-api/models"
	"enyskin-api/utils"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductController handles catalog reads and admin product management
type ProductController struct {
	Collection *mongo.Collection
	Cache      *utils.Cache
	Storage    *utils.Storage
}

// NewProductController creates a new ProductController
func NewProductController(client *mongo.Client, cache *utils.Cache, storage *utils.Storage) *ProductController {
	collection := client.Database(utils.DatabaseName).Collection("products")
	return &ProductController{
		Collection: collection,
		Cache:      cache,
		Storage:    storage,
	}
}

func productListCacheKey(category string, featured bool, limit int) string {
	if category == "" && !featured && limit == 0 {
		return utils.CacheKeyProducts
	}
	return fmt.Sprintf("%s:category=%s&featured=%t&limit=%d", utils.CacheKeyProducts, category, featured, limit)
}

func (pc *ProductController) invalidate(ctx context.Context, id primitive.ObjectID) {
	pc.Cache.Invalidate(ctx, utils.CacheKeyProducts, utils.CacheKeyProducts+":", utils.CacheKeyProduct+id.Hex())
}

// GetProducts retrieves products, optionally filtered by category,
// featured flag and limit. Responses are cached per filter combination.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	featured := r.URL.Query().Get("featured") == "true"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cacheKey := productListCacheKey(category, featured, limit)
	var products []models.Product
	if pc.Cache.Get(ctx, cacheKey, &products) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
		return
	}

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if featured {
		filter["featured"] = true
	}
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := pc.Collection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	products = []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}

	pc.Cache.Set(ctx, cacheKey, products)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cacheKey := utils.CacheKeyProduct + id.Hex()
	var product models.Product
	if !pc.Cache.Get(ctx, cacheKey, &product) {
		err = pc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
		if err != nil {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		pc.Cache.Set(ctx, cacheKey, product)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	err := json.NewDecoder(r.Body).Decode(&product)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if product.Name == "" || product.Price < 0 || product.Stock < 0 {
		http.Error(w, "Product requires a name, a non-negative price and non-negative stock", http.StatusBadRequest)
		return
	}

	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	_, err = pc.Collection.InsertOne(ctx, product)
	if err != nil {
		http.Error(w, "Error creating product", http.StatusInternalServerError)
		return
	}

	pc.invalidate(ctx, product.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
}

// UpdateProduct handles updating a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var product models.Product
	err = json.NewDecoder(r.Body).Decode(&product)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if product.Stock < 0 || product.Price < 0 {
		http.Error(w, "Price and stock must be non-negative", http.StatusBadRequest)
		return
	}

	update := bson.M{"$set": bson.M{
		"name":         product.Name,
		"description":  product.Description,
		"price":        product.Price,
		"stock":        product.Stock,
		"category":     product.Category,
		"image_url":    product.ImageURL,
		"shipping_fee": product.ShippingFee,
		"featured":     product.Featured,
		"updated_at":   time.Now(),
	}}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := pc.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		http.Error(w, "Error updating product", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	pc.invalidate(ctx, id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Product updated successfully"})
}

// DeleteProduct handles deleting a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := pc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		http.Error(w, "Error deleting product", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	pc.invalidate(ctx, id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Product deleted successfully"})
}

// UploadImage stores a product image in the products bucket and records
// its public URL on the product (Admin only)
func (pc *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}
	file, handler, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Failed to retrieve file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	key := utils.ObjectKey(id.Hex(), handler.Filename)
	url, err := pc.Storage.Upload(utils.BucketProducts, key, file)
	if err != nil {
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	result, err := pc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"image_url": url, "updated_at": time.Now()},
	})
	if err != nil {
		http.Error(w, "Error updating product image", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	pc.invalidate(ctx, id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"image_url": url})
}
