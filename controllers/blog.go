package controllers

import (
	"context"
	"encoding/json"
	"enyskin-api/middleware"
	"enyskin-api/models"
	"enyskin-api/utils"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BlogController handles public blog reads and admin post management
type BlogController struct {
	Collection     *mongo.Collection
	UserCollection *mongo.Collection
	Cache          *utils.Cache
	Storage        *utils.Storage
}

// NewBlogController creates a new BlogController
func NewBlogController(client *mongo.Client, cache *utils.Cache, storage *utils.Storage) *BlogController {
	db := client.Database(utils.DatabaseName)
	return &BlogController{
		Collection:     db.Collection("blog_posts"),
		UserCollection: db.Collection("users"),
		Cache:          cache,
		Storage:        storage,
	}
}

func (bc *BlogController) invalidate(ctx context.Context, id primitive.ObjectID) {
	bc.Cache.Invalidate(ctx,
		utils.CacheKeyBlogPosts, utils.CacheKeyBlogPosts+":",
		utils.CacheKeyAdminBlogPosts, utils.CacheKeyBlogPost+id.Hex())
}

// GetPosts retrieves published posts, newest first, with an optional limit.
// Drafts never appear here.
func (bc *BlogController) GetPosts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cacheKey := utils.CacheKeyBlogPosts
	if limit > 0 {
		cacheKey = utils.CacheKeyBlogPosts + ":limit=" + strconv.Itoa(limit)
	}
	var posts []models.BlogPost
	if bc.Cache.Get(ctx, cacheKey, &posts) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(posts)
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := bc.Collection.Find(ctx, bson.M{"published": true}, opts)
	if err != nil {
		http.Error(w, "Error fetching blog posts", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	posts = []models.BlogPost{}
	if err := cursor.All(ctx, &posts); err != nil {
		http.Error(w, "Error reading blog posts", http.StatusInternalServerError)
		return
	}

	bc.Cache.Set(ctx, cacheKey, posts)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}

// GetPostByID retrieves a single published post by ID
func (bc *BlogController) GetPostByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cacheKey := utils.CacheKeyBlogPost + id.Hex()
	var post models.BlogPost
	if !bc.Cache.Get(ctx, cacheKey, &post) {
		err = bc.Collection.FindOne(ctx, bson.M{"_id": id, "published": true}).Decode(&post)
		if err != nil {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		bc.Cache.Set(ctx, cacheKey, post)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// GetAllPosts retrieves every post including drafts (Admin only)
func (bc *BlogController) GetAllPosts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var posts []models.BlogPost
	if bc.Cache.Get(ctx, utils.CacheKeyAdminBlogPosts, &posts) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(posts)
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := bc.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Error fetching blog posts", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	posts = []models.BlogPost{}
	if err := cursor.All(ctx, &posts); err != nil {
		http.Error(w, "Error reading blog posts", http.StatusInternalServerError)
		return
	}

	bc.Cache.Set(ctx, utils.CacheKeyAdminBlogPosts, posts)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}

// CreatePost handles adding a new blog post (Admin only). The author is
// taken from the authenticated session.
func (bc *BlogController) CreatePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var post models.BlogPost
	err := json.NewDecoder(r.Body).Decode(&post)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if post.Title == "" || post.Content == "" {
		http.Error(w, "Title and content are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var author models.User
	err = bc.UserCollection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&author)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	post.ID = primitive.NewObjectID()
	post.AuthorID = author.ID
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt

	_, err = bc.Collection.InsertOne(ctx, post)
	if err != nil {
		http.Error(w, "Error creating blog post", http.StatusInternalServerError)
		return
	}

	bc.invalidate(ctx, post.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// UpdatePost handles updating a blog post (Admin only)
func (bc *BlogController) UpdatePost(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var post models.BlogPost
	err = json.NewDecoder(r.Body).Decode(&post)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	update := bson.M{"$set": bson.M{
		"title":      post.Title,
		"content":    post.Content,
		"excerpt":    post.Excerpt,
		"category":   post.Category,
		"published":  post.Published,
		"image_url":  post.ImageURL,
		"updated_at": time.Now(),
	}}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := bc.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		http.Error(w, "Error updating blog post", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	bc.invalidate(ctx, id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Post updated successfully"})
}

// DeletePost handles deleting a blog post (Admin only)
func (bc *BlogController) DeletePost(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := bc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		http.Error(w, "Error deleting blog post", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	bc.invalidate(ctx, id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Post deleted successfully"})
}

// UploadImage stores a post image in the blog_posts bucket and records its
// public URL on the post (Admin only)
func (bc *BlogController) UploadImage(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
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
	url, err := bc.Storage.Upload(utils.BucketBlogPosts, key, file)
	if err != nil {
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	result, err := bc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"image_url": url, "updated_at": time.Now()},
	})
	if err != nil {
		http.Error(w, "Error updating post image", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	bc.invalidate(ctx, id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"image_url": url})
}
