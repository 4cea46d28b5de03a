package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ConnectMongo opens a MongoDB client and returns the configured database.
// The pool size follows MaxOpenConnections when set.
func ConnectMongo(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().ApplyURI(cfg.ConnectionString)
	if cfg.MaxOpenConnections > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxOpenConnections))
	}
	if cfg.MaxIdleConnections > 0 {
		opts.SetMinPoolSize(uint64(cfg.MaxIdleConnections))
	}
	if cfg.ConnMaxLifetime > 0 {
		opts.SetMaxConnIdleTime(cfg.ConnMaxLifetime)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open mongodb client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, client.Database(cfg.DatabaseName), nil
}

// MongoPinger adapts a MongoDB client to Pinger.
type MongoPinger struct {
	client *mongo.Client
}

// NewMongoPinger creates a Pinger for client.
func NewMongoPinger(client *mongo.Client) *MongoPinger {
	return &MongoPinger{client: client}
}

// PingContext pings the primary.
func (p *MongoPinger) PingContext(ctx context.Context) error {
	if p.client == nil {
		return fmt.Errorf("mongodb client is not initialized")
	}
	return p.client.Ping(ctx, readpref.Primary())
}
