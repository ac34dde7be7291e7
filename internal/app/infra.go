package app

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"signin-portal/internal/config"
	"signin-portal/internal/db"
	"signin-portal/internal/logger"
	"signin-portal/internal/redis"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

// OpenDB connects to Postgres and applies the schema migration.
func OpenDB(ctx context.Context, dsn string) (*db.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := db.Migrate(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &db.DB{DB: sqlDB}, nil
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	redisClient, err := redis.New(ctx, redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Info("redis ready", nil)

	return &Infra{
		DB:    database,
		Redis: redisClient,
	}, nil
}

func (i *Infra) Close() error {
	redisErr := i.Redis.Close()
	if err := i.DB.Close(); err != nil {
		return err
	}
	return redisErr
}
