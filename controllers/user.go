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
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// UserController handles auth, profiles and admin user management
type UserController struct {
	Collection        *mongo.Collection
	ProfileCollection *mongo.Collection
	CartCollection    *mongo.Collection
	EmailService      *utils.EmailService
}

// NewUserController creates a new UserController with EmailService
func NewUserController(client *mongo.Client, emailService *utils.EmailService) *UserController {
	db := client.Database(utils.DatabaseName)
	return &UserController{
		Collection:        db.Collection("users"),
		ProfileCollection: db.Collection("profiles"),
		CartCollection:    db.Collection("carts"),
		EmailService:      emailService,
	}
}

// Register handles user registration. Creating the user also creates its
// profile row (same id).
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if body.Email == "" || body.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	// Check if user already exists
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	count, err := uc.Collection.CountDocuments(ctx, bson.M{"email": body.Email})
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "User already exists", http.StatusBadRequest)
		return
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		ID:         primitive.NewObjectID(),
		Email:      body.Email,
		Password:   string(hashedPassword),
		Role:       "user",
		IsVerified: false,
		CreatedAt:  time.Now(),
	}

	verificationToken, err := utils.GenerateJWT(user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating verification token", http.StatusInternalServerError)
		return
	}
	user.VerificationToken = verificationToken

	_, err = uc.Collection.InsertOne(ctx, user)
	if err != nil {
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	profile := models.Profile{
		ID:        user.ID,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		UpdatedAt: time.Now(),
	}
	if _, err := uc.ProfileCollection.InsertOne(ctx, profile); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID.Hex()).Error("failed to create profile")
	}

	// Send verification email
	err = uc.EmailService.SendVerificationEmail(user.Email, verificationToken)
	if err != nil {
		http.Error(w, "Error sending verification email", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "User registered successfully. Please check your email to verify your account.",
	})
}

// VerifyEmail handles email verification
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Verification token missing", http.StatusBadRequest)
		return
	}

	if _, err := utils.ParseJWT(token); err != nil {
		http.Error(w, "Invalid token", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"verification_token": token}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found or already verified", http.StatusBadRequest)
		return
	}

	_, err = uc.Collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"is_verified":        true,
			"verification_token": "",
		},
	})
	if err != nil {
		http.Error(w, "Error updating user verification status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Email verified successfully. You can now log in."})
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var user models.User
	err = uc.Collection.FindOne(ctx, bson.M{"email": creds.Email}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusUnauthorized)
		return
	}

	if !user.IsVerified {
		http.Error(w, "Email not verified", http.StatusUnauthorized)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password))
	if err != nil {
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// GetProfile retrieves the authenticated user's account and profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Could not parse user from context", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	var profile models.Profile
	if err := uc.ProfileCollection.FindOne(ctx, bson.M{"_id": user.ID}).Decode(&profile); err != nil {
		profile = models.Profile{ID: user.ID}
	}

	user.Password = ""
	user.VerificationToken = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":    user,
		"profile": profile,
	})
}

// UpdateProfile updates the authenticated user's profile row
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Could not parse user from context", http.StatusUnauthorized)
		return
	}

	var body struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	profile := models.Profile{
		ID:        user.ID,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		AvatarURL: body.AvatarURL,
		UpdatedAt: time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := uc.ProfileCollection.ReplaceOne(ctx, bson.M{"_id": user.ID}, profile, opts); err != nil {
		http.Error(w, "Error updating profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// GetUsers retrieves all users (Admin only)
func (uc *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cursor, err := uc.Collection.Find(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Failed to retrieve users", http.StatusInternalServerError)
		return
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		http.Error(w, "Failed to retrieve users", http.StatusInternalServerError)
		return
	}
	for i := range users {
		users[i].Password = ""
		users[i].VerificationToken = ""
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// UpdateUserRole changes a user's role (Admin only)
func (uc *UserController) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Role != "user" && body.Role != "admin" {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	result, err := uc.Collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"role": body.Role}})
	if err != nil {
		http.Error(w, "Failed to update user role", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User role updated successfully"})
}

// DeleteUser removes a user along with its profile and cart (Admin only)
func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	result, err := uc.Collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if _, err := uc.ProfileCollection.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		logrus.WithError(err).WithField("user_id", userID.Hex()).Warn("failed to delete profile")
	}
	if _, err := uc.CartCollection.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		logrus.WithError(err).WithField("user_id", userID.Hex()).Warn("failed to delete cart")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User deleted successfully"})
}
