package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type kvEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_store" }

// SQLiteKV keeps the store in a local SQLite file
type SQLiteKV struct {
	db *gorm.DB
}

// NewSQLiteKV opens (creating if needed) the SQLite database at path
func NewSQLiteKV(path string) (*SQLiteKV, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_store: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

func (r *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var e kvEntry
	err := r.db.WithContext(ctx).First(&e, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return e.Value, true, nil
}

func (r *SQLiteKV) Set(ctx context.Context, key, value string) error {
	e := kvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteKV) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection
func (r *SQLiteKV) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
