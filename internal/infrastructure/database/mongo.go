package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookreview-backend/internal/config"
)

// Collection names used across repositories.
const (
	UsersCollection   = "users"
	BooksCollection   = "books"
	ReviewsCollection = "reviews"
)

// MongoDB wraps the client and the application database handle.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	config   config.MongoConfig
}

// NewMongoDB creates an unconnected wrapper. Call Connect before use.
func NewMongoDB(cfg config.MongoConfig) *MongoDB {
	return &MongoDB{config: cfg}
}

// Connect establishes the connection and verifies it with a ping.
func (m *MongoDB) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(m.config.Timeout)*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(m.config.URI).
		SetMaxPoolSize(25).
		SetMinPoolSize(5).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}

	m.Client = client
	m.Database = client.Database(m.config.Database)
	return nil
}

// HealthCheck pings the server with a short timeout.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("mongodb client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := m.Client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Collection returns a collection handle from the application database.
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

// EnsureIndexes creates the indexes the domain invariants rely on:
// unique user identity, sparse-unique ISBN, text search over books, and a
// unique (userId, bookId) pair that closes the duplicate-review race.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	users := m.Collection(UsersCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	books := m.Collection(BooksCollection)
	_, err = books.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "isbn", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "author", Value: "text"},
				{Key: "genre", Value: "text"},
			},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create book indexes: %w", err)
	}

	reviews := m.Collection(ReviewsCollection)
	_, err = reviews.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "bookId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "bookId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}

	return nil
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
