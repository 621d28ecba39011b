//go:build integration

package repositories

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/BradenHooton/emporium/internal/config"
	"github.com/BradenHooton/emporium/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// testPostgres is a migrated Postgres container plus its pool.
type testPostgres struct {
	container testcontainers.Container
	db        *database.DB
}

func setupPostgres(ctx context.Context) (*testPostgres, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("emporium"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := database.Migrate(ctx, connStr, discardLogger); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &testPostgres{container: container, db: database.NewFromPool(pool, discardLogger)}, nil
}

func (p *testPostgres) truncate(ctx context.Context) error {
	_, err := p.db.Pool.Exec(ctx, "TRUNCATE TABLE users, products")
	return err
}

func (p *testPostgres) teardown(ctx context.Context) {
	p.db.Pool.Close()
	_ = p.container.Terminate(ctx)
}

// testMongo is a throwaway mongod with indexes applied.
type testMongo struct {
	container testcontainers.Container
	db        *database.MongoDB
}

func setupMongo(ctx context.Context) (*testMongo, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start mongo container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	port, err := container.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := database.NewMongoConnection(ctx, &config.MongoConfig{
		URI:            fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		Database:       "emporium_test",
		ConnectTimeout: 20 * time.Second,
		MaxPoolSize:    10,
	}, discardLogger)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &testMongo{container: container, db: db}, nil
}

func (m *testMongo) truncate(ctx context.Context) error {
	for _, name := range []string{database.UsersCollection, database.ProductsCollection} {
		if _, err := m.db.DB.Collection(name).DeleteMany(ctx, map[string]any{}); err != nil {
			return err
		}
	}
	return nil
}

func (m *testMongo) teardown(ctx context.Context) {
	_ = m.db.Close(ctx)
	_ = m.container.Terminate(ctx)
}
