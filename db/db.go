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
	UserCollection     *mongo.Collection
	SessionsCollection *mongo.Collection
	WalletsCollection  *mongo.Collection
	MessagesCollection *mongo.Collection
	NotesCollection    *mongo.Collection
	GroupsCollection   *mongo.Collection
	CallLogsCollection *mongo.Collection
	Client             *mongo.Client
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

	database := Client.Database("caredb")
	UserCollection = database.Collection("users")
	SessionsCollection = database.Collection("sessions")
	WalletsCollection = database.Collection("wallets")
	MessagesCollection = database.Collection("messages")
	NotesCollection = database.Collection("notes")
	GroupsCollection = database.Collection("groups")
	CallLogsCollection = database.Collection("calllogs")
}
