package database

import (
	"context"
	"database/sql"
	"fmt"
)

type seedProduct struct {
	name  string
	price string
	stock int
}

// sampleCatalog is the starter catalog inserted by the seed command.
var sampleCatalog = []struct {
	category string
	products []seedProduct
}{
	{"T-Shirts", []seedProduct{{"Basic White Tee", "12.99", 120}, {"Graphic Black Tee", "19.50", 80}}},
	{"Jeans", []seedProduct{{"Slim Fit Jeans", "49.90", 40}, {"Relaxed Fit Jeans", "54.00", 35}}},
	{"Jackets", []seedProduct{{"Denim Jacket", "89.00", 15}, {"Rain Parka", "129.00", 10}}},
	{"Shoes", []seedProduct{{"Canvas Sneakers", "39.99", 60}}},
}

// Seed inserts the sample catalog when the categories table is empty.  It
// reports whether anything was inserted.  The whole catalog is written in
// one transaction.
func Seed(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&n); err != nil {
		return false, fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, c := range sampleCatalog {
		res, err := tx.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", c.category)
		if err != nil {
			return false, fmt.Errorf("insert category %q: %w", c.category, err)
		}
		categoryID, err := res.LastInsertId()
		if err != nil {
			return false, err
		}
		for _, p := range c.products {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO products (name, category_id, price, stock) VALUES (?, ?, ?, ?)",
				p.name, categoryID, p.price, p.stock); err != nil {
				return false, fmt.Errorf("insert product %q: %w", p.name, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}
	committed = true
	return true, nil
}
