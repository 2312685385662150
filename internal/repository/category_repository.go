package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/clothing-store/internal/model"
)

// CategoryRepo provides access to the categories table.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo returns a new CategoryRepo bound to the given database.
func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// List returns all categories ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT category_id, name FROM categories ORDER BY category_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID returns the category with the given id or ErrNotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx, "SELECT category_id, name FROM categories WHERE category_id = ?", id).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, ErrNotFound
	}
	return c, err
}

// Create inserts a category and returns its id.
func (r *CategoryRepo) Create(ctx context.Context, name string) (uint64, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
