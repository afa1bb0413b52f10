package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectDB initializes and returns a MongoDB client and database instance.
func ConnectDB(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the primary node
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	fmt.Println("Successfully connected to MongoDB!")

	return client, db, nil
}

// DisconnectDB closes the MongoDB client connection.
func DisconnectDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	fmt.Println("MongoDB connection closed.")
	return nil
}

// EnsureIndexes creates the unique indexes the entity model relies on.
// Duplicate-key violations on these surface as ErrConflict in the services.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	// Each model needs its own options value: CreateMany sets the generated
	// index name on the options it is given, so a shared instance would leak
	// the first index's name into every later one and the server would
	// reject the duplicate names.
	unique := func() *options.IndexOptions { return options.Index().SetUnique(true) }

	indexes := map[string][]mongo.IndexModel{
		"cities": {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique()},
		},
		"areas": {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "city", Value: 1}}},
		},
		"categories": {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique()},
		},
		"blogs": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		"properties": {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "slug", Value: 1}}},
			{Keys: bson.D{{Key: "area", Value: 1}}},
		},
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique()},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}
	return nil
}
