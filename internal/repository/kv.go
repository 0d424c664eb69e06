package repository

import (
	"context"
	"fmt"

	"swipe-match-backend/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// KVStore is the single-key text store the match collection is persisted to
type KVStore interface {
	// Get returns the value under key. found is false when nothing is stored.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// OpenKV builds the backend selected by cfg.Backend. The returned close
// function releases any connection held by the backend.
func OpenKV(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (KVStore, func(), error) {
	logger = logger.With().Str("backend", cfg.Backend).Logger()

	switch cfg.Backend {
	case "memory":
		logger.Warn().Msg("Matches are kept in memory and lost on restart")
		return NewMemoryKV(), func() {}, nil

	case "sqlite":
		kv, err := NewSQLiteKV(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("SQLite storage opened")
		return kv, func() {
			if err := kv.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close SQLite storage")
			}
		}, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		kv := NewPostgresKV(pool)
		if err := kv.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info().Str("host", cfg.Database.Host).Msg("Database connection established")
		return kv, pool.Close, nil

	case "s3":
		client, err := NewS3Client(ctx, cfg.AWS)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("bucket", cfg.AWS.S3Bucket).Msg("S3 storage configured")
		return NewS3KV(client, cfg.AWS.S3Bucket, cfg.AWS.S3Prefix), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
}
