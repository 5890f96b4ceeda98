// main.go
package main

import (
	"context"
	"enyskin-api/controllers"
	"enyskin-api/middleware"
	"enyskin-api/routes"
	"enyskin-api/utils"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		logrus.Info("No .env file found. Proceeding with environment variables.")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("LOG_LEVEL") == "debug" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize services
	emailService := utils.NewEmailService()
	cache := utils.NewCache()
	storage := utils.NewStorage()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			logrus.WithError(err).Error("failed to disconnect from MongoDB")
		}
	}()

	// Initialize controllers
	userController := controllers.NewUserController(client, emailService)
	productController := controllers.NewProductController(client, cache, storage)
	blogController := controllers.NewBlogController(client, cache, storage)
	cartController := controllers.NewCartController(client)
	orderController := controllers.NewOrderController(client, emailService)
	dashboardController := controllers.NewDashboardController(client)

	// Set up the router
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)
	routes.RegisterRoutes(router,
		userController, productController, blogController,
		cartController, orderController, dashboardController,
		storage.Root())

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	logrus.WithField("port", port).Info("server is running")
	logrus.Fatal(http.ListenAndServe(":"+port, router))
}
