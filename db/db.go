package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection           *mongo.Collection
	ProviderCollection       *mongo.Collection
	ProviderOtpCollection    *mongo.Collection
	AppointmentCollection    *mongo.Collection
	CalendarConfigCollection *mongo.Collection
	CalendarSlotCollection   *mongo.Collection
	EventCollection          *mongo.Collection
	PromoCodeCollection      *mongo.Collection
	Client                   *mongo.Client
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

	database := Client.Database("mawiddb")
	UserCollection = database.Collection("users")
	ProviderCollection = database.Collection("providers")
	ProviderOtpCollection = database.Collection("providerotps")
	AppointmentCollection = database.Collection("appointments")
	CalendarConfigCollection = database.Collection("calendarconfigs")
	CalendarSlotCollection = database.Collection("calendarslots")
	EventCollection = database.Collection("events")
	PromoCodeCollection = database.Collection("promocodes")
}

// EnsureIndexes creates the indexes the booking paths rely on. Called once
// at startup; index creation is idempotent on the server side.
func EnsureIndexes(ctx context.Context) error {
	_, err := CalendarConfigCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"providerid": 1},
		Options: options.Index().SetUnique(true).SetName("unique_providerid"),
	})
	if err != nil {
		return err
	}

	_, err = CalendarSlotCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "providerid", Value: 1}, {Key: "date", Value: 1}, {Key: "starttime", Value: 1}},
		Options: options.Index().SetName("provider_date_start"),
	})
	if err != nil {
		return err
	}

	_, err = PromoCodeCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"code": 1},
		Options: options.Index().SetUnique(true).SetName("unique_code"),
	})
	if err != nil {
		return err
	}

	// OTP documents expire ten minutes after creation.
	_, err = ProviderOtpCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"createdat": 1},
		Options: options.Index().SetExpireAfterSeconds(600).SetName("ttl_createdat"),
	})
	return err
}
