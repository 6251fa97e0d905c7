// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package mongo provides a managed MongoDB client for the document user store.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/taibuivan/shopit/internal/platform/constants"
	"github.com/taibuivan/shopit/internal/platform/retry"
)

const (
	connectTimeout         = 5 * time.Second
	serverSelectionTimeout = 5 * time.Second
	pingTimeout            = 2 * time.Second
	maxPoolSize            = 15
)

// Connect opens a client for uri and returns the named database.
//
// # Parameters
//   - ctx: Bounds the connection bootstrap.
//   - uri: A mongodb:// or mongodb+srv:// connection string.
//   - database: Name of the ShopIt database.
//   - logger: Structured logger for connection events.
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*mongo.Database, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetAppName(constants.AppName).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetMaxPoolSize(maxPoolSize)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo: invalid client options: %w", err)
	}

	err = retry.Connect(ctx, logger, "mongo", constants.StartupTimeout, func() error {
		return Ping(ctx, client)
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("mongo client connected", slog.String("database", database))

	return client.Database(database), nil
}

// Ping verifies that the primary is reachable.
func Ping(ctx context.Context, client *mongo.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: ping failed: %w", err)
	}

	return nil
}

// Disconnect closes every connection of the client owning database.
func Disconnect(ctx context.Context, database *mongo.Database) error {
	if err := database.Client().Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnect failed: %w", err)
	}
	return nil
}
