//go:build integration

package testutil

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/allisson/users/internal/database"
)

const mongoImage = "mongo:7"

// MongoContainer wraps a testcontainers MongoDB instance.
type MongoContainer struct {
	Container testcontainers.Container
	URI       string
	Client    *mongo.Client
	Database  *mongo.Database
}

// NewMongoContainer starts a MongoDB container and connects to dbName on it.
// The container and client are released when the test finishes.
func NewMongoContainer(t *testing.T, dbName string) *MongoContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcmongo.Run(ctx, mongoImage)
	if err != nil {
		t.Fatalf("failed to start mongodb container: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		t.Fatalf("failed to get mongodb connection string: %v", err)
	}

	client, db, err := database.ConnectMongo(ctx, database.Config{
		Driver:           database.DriverMongoDB,
		ConnectionString: uri,
		DatabaseName:     dbName,
	})
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		t.Fatalf("failed to connect to mongodb: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
		_ = testcontainers.TerminateContainer(container)
	})

	return &MongoContainer{
		Container: container,
		URI:       uri,
		Client:    client,
		Database:  db,
	}
}

// DropDatabase removes every collection. Use between tests to ensure isolation.
func (m *MongoContainer) DropDatabase(ctx context.Context) error {
	return m.Database.Drop(ctx)
}
