package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

func getMySQLAdapter(t *testing.T) (*MySQLAdapter, *sql.DB) {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/storefront?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("MySQL not available: %v", err)
	}

	adapter := NewMySQLAdapter(db)
	if err := adapter.EnsureSchema(context.Background()); err != nil {
		db.Close()
		t.Fatalf("setup failed: %v", err)
	}

	return adapter, db
}

func TestMySQLAdapter_SetGet(t *testing.T) {
	adapter, db := getMySQLAdapter(t)
	defer db.Close()

	ctx := context.Background()

	// Setup
	db.ExecContext(ctx, `DELETE FROM kv_store WHERE storage_key = 'test-cart'`)

	if err := adapter.Set(ctx, "test-cart", `[{"id":1,"quantity":1}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, found, err := adapter.Get(ctx, "test-cart")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected key to be found")
	}
	if value != `[{"id":1,"quantity":1}]` {
		t.Errorf("unexpected value %s", value)
	}

	// Cleanup
	db.ExecContext(ctx, `DELETE FROM kv_store WHERE storage_key = 'test-cart'`)
}

func TestMySQLAdapter_Upsert(t *testing.T) {
	adapter, db := getMySQLAdapter(t)
	defer db.Close()

	ctx := context.Background()

	if err := adapter.Set(ctx, "upsert-cart", "[1]"); err != nil {
		t.Fatalf("first Set failed: %v", err)
	}
	if err := adapter.Set(ctx, "upsert-cart", "[]"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	var count int
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv_store WHERE storage_key = 'upsert-cart'`).Scan(&count)
	if count != 1 {
		t.Errorf("expected a single row, got %d", count)
	}

	value, _, _ := adapter.Get(ctx, "upsert-cart")
	if value != "[]" {
		t.Errorf("expected [], got %s", value)
	}

	// Cleanup
	db.ExecContext(ctx, `DELETE FROM kv_store WHERE storage_key = 'upsert-cart'`)
}

func TestMySQLAdapter_GetMissingAndRemove(t *testing.T) {
	adapter, db := getMySQLAdapter(t)
	defer db.Close()

	ctx := context.Background()

	_, found, err := adapter.Get(ctx, "nonexistent-cart")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected absent key")
	}

	adapter.Set(ctx, "remove-cart", "[]")
	if err := adapter.Remove(ctx, "remove-cart"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, found, _ := adapter.Get(ctx, "remove-cart"); found {
		t.Error("expected key to be removed")
	}
}
