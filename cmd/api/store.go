// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/shopit/internal/api"
	"github.com/taibuivan/shopit/internal/platform/config"
	"github.com/taibuivan/shopit/internal/platform/constants"
	"github.com/taibuivan/shopit/internal/platform/migration"
	mongostore "github.com/taibuivan/shopit/internal/platform/mongo"
	pgstore "github.com/taibuivan/shopit/internal/platform/postgres"
	"github.com/taibuivan/shopit/internal/users/auth"
)

// userStore is the selected user repository with its probe and closer.
type userStore struct {
	users auth.UserRepository
	probe api.Dependency
	close func()
}

func openUserStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*userStore, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log *slog.Logger) (*userStore, error) {
	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log, cfg.Debug); err != nil {
		pool.Close()
		return nil, err
	}

	return &userStore{
		users: auth.NewUserRepository(pool),
		probe: api.Dependency{Name: config.DriverPostgres, Ping: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}},
		close: func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, log *slog.Logger) (*userStore, error) {
	database, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, log)
	if err != nil {
		return nil, err
	}

	repository := auth.NewMongoUserRepository(database)
	if err := repository.EnsureIndexes(ctx); err != nil {
		_ = mongostore.Disconnect(context.Background(), database)
		return nil, err
	}

	return &userStore{
		users: repository,
		probe: api.Dependency{Name: config.DriverMongo, Ping: func(ctx context.Context) error {
			return mongostore.Ping(ctx, database.Client())
		}},
		close: func() {
			log.Info("closing_mongo_client")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := mongostore.Disconnect(shutdownCtx, database); err != nil {
				log.Error("mongo_disconnect_failed", slog.Any("error", err))
			}
		},
	}, nil
}
