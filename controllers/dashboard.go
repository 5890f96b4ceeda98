package controllers

import (
	"context"
	"encoding/json"
	"enyskin-api/utils"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DashboardController serves the admin dashboard summary
type DashboardController struct {
	DB *mongo.Database
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(client *mongo.Client) *DashboardController {
	return &DashboardController{DB: client.Database(utils.DatabaseName)}
}

// GetStats returns entity counts and total revenue (Admin only)
func (dc *DashboardController) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productCount, err := dc.DB.Collection("products").CountDocuments(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Failed to load dashboard stats", http.StatusInternalServerError)
		return
	}
	orderCount, err := dc.DB.Collection("orders").CountDocuments(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Failed to load dashboard stats", http.StatusInternalServerError)
		return
	}
	userCount, err := dc.DB.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Failed to load dashboard stats", http.StatusInternalServerError)
		return
	}
	publishedPosts, err := dc.DB.Collection("blog_posts").CountDocuments(ctx, bson.M{"published": true})
	if err != nil {
		http.Error(w, "Failed to load dashboard stats", http.StatusInternalServerError)
		return
	}

	// Revenue is the sum of all order totals.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
		}}},
	}
	cursor, err := dc.DB.Collection("orders").Aggregate(ctx, pipeline)
	if err != nil {
		http.Error(w, "Failed to load dashboard stats", http.StatusInternalServerError)
		return
	}
	var agg []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &agg); err != nil {
		http.Error(w, "Failed to load dashboard stats", http.StatusInternalServerError)
		return
	}
	var revenue float64
	if len(agg) > 0 {
		revenue = agg[0].Revenue
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"products":        productCount,
		"orders":          orderCount,
		"users":           userCount,
		"published_posts": publishedPosts,
		"revenue":         revenue,
	})
}
