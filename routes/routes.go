// routes/routes.go
package routes

import (
	"enyskin-api/controllers"
	"enyskin-api/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	userController *controllers.UserController,
	productController *controllers.ProductController,
	blogController *controllers.BlogController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
	dashboardController *controllers.DashboardController,
	uploadDir string,
) {
	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")
	router.HandleFunc("/verify", userController.VerifyEmail).Methods("GET")

	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	router.HandleFunc("/blog", blogController.GetPosts).Methods("GET")
	router.HandleFunc("/blog/{id}", blogController.GetPostByID).Methods("GET")

	// Uploaded images
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", userController.GetProfile).Methods("GET")
	protected.HandleFunc("/profile", userController.UpdateProfile).Methods("PUT")

	// Cart routes
	protected.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	protected.HandleFunc("/cart/items", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/cart/items/{product_id}", cartController.UpdateQuantity).Methods("PUT")
	protected.HandleFunc("/cart/items/{product_id}", cartController.RemoveFromCart).Methods("DELETE")

	// Checkout and order routes
	protected.HandleFunc("/checkout", orderController.Checkout).Methods("POST")
	protected.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	protected.HandleFunc("/orders/{id}", orderController.GetOrder).Methods("GET")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/dashboard", dashboardController.GetStats).Methods("GET")

	admin.HandleFunc("/products", productController.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", productController.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", productController.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/products/{id}/image", productController.UploadImage).Methods("POST")

	admin.HandleFunc("/blog", blogController.GetAllPosts).Methods("GET")
	admin.HandleFunc("/blog", blogController.CreatePost).Methods("POST")
	admin.HandleFunc("/blog/{id}", blogController.UpdatePost).Methods("PUT")
	admin.HandleFunc("/blog/{id}", blogController.DeletePost).Methods("DELETE")
	admin.HandleFunc("/blog/{id}/image", blogController.UploadImage).Methods("POST")

	admin.HandleFunc("/orders", orderController.ListOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}", orderController.GetOrder).Methods("GET")

	admin.HandleFunc("/users", userController.GetUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/role", userController.UpdateUserRole).Methods("PUT")
	admin.HandleFunc("/users/{id}", userController.DeleteUser).Methods("DELETE")
}
