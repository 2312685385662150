// Package dbtest opens throwaway SQLite databases with the store schema for
// tests in other packages.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/clothing-store/internal/database"
)

// Open returns a fresh database file under t.TempDir() with the schema
// applied.  The handle is closed when the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.db")
	db, err := database.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.EnsureSchema(context.Background(), db, "sqlite3"))
	return db
}

// Category inserts a category and returns its id.
func Category(t *testing.T, db *sql.DB, name string) uint64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO categories (name) VALUES (?)", name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// Product inserts a product and returns its id.  price is a decimal
// string such as "10.00".
func Product(t *testing.T, db *sql.DB, categoryID uint64, name, price string, stock int) uint64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO products (name, category_id, price, stock) VALUES (?, ?, ?, ?)",
		name, categoryID, price, stock)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// Stock returns the current stock of a product.
func Stock(t *testing.T, db *sql.DB, productID uint64) int {
	t.Helper()
	var stock int
	require.NoError(t, db.QueryRow("SELECT stock FROM products WHERE product_id = ?", productID).Scan(&stock))
	return stock
}

// Count returns the number of rows in table.
func Count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
