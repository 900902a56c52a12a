package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	FriendsCollection     *mongo.Collection
	OutingsCollection     *mongo.Collection
	PreferencesCollection *mongo.Collection
	PlansCollection       *mongo.Collection
	PlacesCollection      *mongo.Collection
	ChatsCollection       *mongo.Collection
	MessagesCollection    *mongo.Collection
	ActivitiesCollection  *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database("outingdb").Collection("users")
	FriendsCollection = Client.Database("outingdb").Collection("friends")
	OutingsCollection = Client.Database("outingdb").Collection("outings")
	PreferencesCollection = Client.Database("outingdb").Collection("preferences")
	PlansCollection = Client.Database("outingdb").Collection("plans")
	PlacesCollection = Client.Database("outingdb").Collection("places")
	ChatsCollection = Client.Database("outingdb").Collection("chats")
	MessagesCollection = Client.Database("outingdb").Collection("messages")
	ActivitiesCollection = Client.Database("outingdb").Collection("activities")
}
