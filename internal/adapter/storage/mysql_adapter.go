package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const createKVTableSQL = `
	CREATE TABLE IF NOT EXISTS kv_store (
		storage_key VARCHAR(191) NOT NULL PRIMARY KEY,
		value       LONGTEXT     NOT NULL,
		updated_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the kv_store table if it does not exist.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createKVTableSQL); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := m.db.QueryRowContext(ctx, `
		SELECT value FROM kv_store WHERE storage_key = ?`, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query kv_store: %w", err)
	}

	return value, true, nil
}

func (m *MySQLAdapter) Set(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO kv_store (storage_key, value, updated_at)
		VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert kv_store: %w", err)
	}

	return nil
}

func (m *MySQLAdapter) Remove(ctx context.Context, key string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM kv_store WHERE storage_key = ?`, key); err != nil {
		return fmt.Errorf("delete kv_store: %w", err)
	}
	return nil
}
