package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/clothing-store/internal/model"
)

// ProductRepo provides access to the products table.  Stock is only ever
// changed through DecrementStockTx.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a new ProductRepo bound to the given database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// List returns every product joined with its category name, ordered by id.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	const q = `SELECT p.product_id, p.name, p.category_id, c.name, p.price, p.stock
	           FROM products p
	           JOIN categories c ON c.category_id = p.category_id
	           ORDER BY p.product_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.CategoryName, &p.Price, &p.Stock); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a product and returns its id.  The caller checks that the
// category exists.
func (r *ProductRepo) Create(ctx context.Context, name string, categoryID uint64, price decimal.Decimal, stock int) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO products (name, category_id, price, stock) VALUES (?, ?, ?, ?)",
		name, categoryID, price.StringFixed(2), stock)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByIDTx fetches a product inside an existing transaction.  ErrNotFound
// is returned when no such product exists.
func (r *ProductRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Product, error) {
	var p model.Product
	err := tx.QueryRowContext(ctx,
		"SELECT product_id, name, category_id, price, stock FROM products WHERE product_id = ?", id).
		Scan(&p.ID, &p.Name, &p.CategoryID, &p.Price, &p.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// DecrementStockTx subtracts qty from the product's stock only if enough
// stock remains at the moment the row is written.  It reports whether the
// row was updated; false means a concurrent order took the stock first.
func (r *ProductRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, id uint64, qty int) (bool, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE products SET stock = stock - ? WHERE product_id = ? AND stock >= ?", qty, id, qty)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
