package utils

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DatabaseName is the MongoDB database holding all storefront collections.
const DatabaseName = "enyskin"

// ConnectDB connects to MongoDB using MONGO_URI and verifies the
// connection with a ping before returning the client.
func ConnectDB() *mongo.Client {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to MongoDB")
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logrus.WithError(err).Fatal("failed to ping MongoDB")
	}

	logrus.Info("connected to MongoDB")
	return client
}
