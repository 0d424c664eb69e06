package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresKV handles database operations for the kv_store table
type PostgresKV struct {
	db *pgxpool.Pool
}

// NewPostgresKV creates a new Postgres-backed key-value store
func NewPostgresKV(db *pgxpool.Pool) *PostgresKV {
	return &PostgresKV{db: db}
}

// EnsureSchema creates the kv_store table if it does not exist
func (r *PostgresKV) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return nil
}

// Get retrieves the value stored under key
func (r *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`
	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the value under key
func (r *PostgresKV) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// Delete removes key
func (r *PostgresKV) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = $1`
	if _, err := r.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
