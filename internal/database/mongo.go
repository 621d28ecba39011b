package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/emporium/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection    = "users"
	ProductsCollection = "products"
)

// MongoDB wraps a connected client and the application database
type MongoDB struct {
	Client *mongo.Client
	DB     *mongo.Database
	logger *slog.Logger
}

// NewMongoConnection connects, pings and ensures indexes
func NewMongoConnection(ctx context.Context, cfg *config.MongoConfig, logger *slog.Logger) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := EnsureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("database connection established",
		slog.String("driver", config.StoreMongo),
		slog.String("database", cfg.Database),
	)

	return &MongoDB{Client: client, DB: db, logger: logger}, nil
}

// EnsureMongoIndexes creates the unique email index and the list-sort indexes.
// CreateMany is idempotent for identical index definitions.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_users_email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_users_name"),
		},
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	productIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "product_price", Value: 1}},
			Options: options.Index().SetName("idx_products_price"),
		},
		{
			Keys:    bson.D{{Key: "product_stock", Value: 1}},
			Options: options.Index().SetName("idx_products_stock"),
		},
	}
	if _, err := db.Collection(ProductsCollection).Indexes().CreateMany(ctx, productIndexes); err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}

	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	m.logger.Info("closing mongo client")
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := m.Client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
