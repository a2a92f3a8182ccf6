package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// kvEntry is one row of the device-local key-value table.
type kvEntry struct {
	Key       string `gorm:"column:storage_key;primaryKey"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_store" }

type SQLiteAdapter struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database file at path and migrates the kv_store table.
func OpenSQLite(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return NewSQLiteAdapter(db)
}

func NewSQLiteAdapter(db *gorm.DB) (*SQLiteAdapter, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_store: %w", err)
	}
	return &SQLiteAdapter{db: db}, nil
}

func (s *SQLiteAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := s.db.WithContext(ctx).Where("storage_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query kv_store: %w", err)
	}
	return entry.Value, true, nil
}

func (s *SQLiteAdapter) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert kv_store: %w", err)
	}
	return nil
}

func (s *SQLiteAdapter) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("storage_key = ?", key).Delete(&kvEntry{}).Error; err != nil {
		return fmt.Errorf("delete kv_store: %w", err)
	}
	return nil
}

func (s *SQLiteAdapter) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
