package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/port"
	"github.com/rl1809/storefront/pkg/config"
	"github.com/rl1809/storefront/pkg/logger"
)

// openStore connects the configured key-value backend. The returned func
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (port.KeyValueStore, func() error, error) {
	ctx = logg.WithField(ctx, "driver", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		adapter, err := storage.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		logg.Info(logg.WithField(ctx, "path", cfg.SQLite.Path), "storage.connected")
		return adapter, adapter.Close, nil

	case config.StorageDriverRedis:
		opts, err := redisOptions(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logg.Info(logg.WithField(ctx, "addr", opts.Addr), "storage.connected")
		return storage.NewRedisAdapter(rdb), rdb.Close, nil

	case config.StorageDriverMySQL:
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping mysql: %w", err)
		}
		adapter := storage.NewMySQLAdapter(db)
		if err := adapter.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logg.Info(ctx, "storage.connected")
		return adapter, db.Close, nil

	case config.StorageDriverMemory:
		logg.Warn(ctx, "storage.memory_only")
		return storage.NewMemoryAdapter(), func() error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}

func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}, nil
}
