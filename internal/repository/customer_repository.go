package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/clothing-store/internal/model"
	"github.com/iliyamo/clothing-store/internal/utils"
)

// CustomerRepo stores customer accounts and their credentials.
type CustomerRepo struct{ DB *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

// NewCustomer carries the fields needed to register an account.  Password
// is the plaintext; only its bcrypt hash reaches the database.
type NewCustomer struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      model.Role
}

const customerColumns = "customer_id, first_name, last_name, email, password_hash, role, created_at"

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create inserts a customer and returns its ID.  A duplicate email is
// reported as ErrEmailExists, detected from the insert itself.
func (r *CustomerRepo) Create(ctx context.Context, in NewCustomer, cost int) (uint64, error) {
	hash, err := utils.HashPassword(in.Password, cost)
	if err != nil {
		return 0, err
	}
	role := in.Role
	if role != model.RoleAdmin {
		role = model.RoleCustomer
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO customers (first_name, last_name, email, password_hash, role) VALUES (?,?,?,?,?)",
		strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), NormalizeEmail(in.Email), hash, string(role))
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a customer by normalized email.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE email = ? LIMIT 1", NormalizeEmail(email))
	return scanCustomer(row)
}

// GetByID fetches a customer by id.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE customer_id = ? LIMIT 1", id)
	return scanCustomer(row)
}

// SetRole changes the role of an existing customer.
func (r *CustomerRepo) SetRole(ctx context.Context, id uint64, role model.Role) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE customers SET role = ? WHERE customer_id = ?", string(role), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports zero affected rows when the value is unchanged.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a customer unless they have placed orders, in which case
// ErrConflict is returned.  It reports whether a row was removed; a
// missing id is not an error.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var orders int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders WHERE customer_id = ?", id).Scan(&orders); err != nil {
		return false, err
	}
	if orders > 0 {
		return false, ErrConflict
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM customers WHERE customer_id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return n > 0, nil
}

func scanCustomer(row *sql.Row) (model.Customer, error) {
	var c model.Customer
	var role string
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PasswordHash, &role, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Customer{}, ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	c.Role = model.ParseRole(role)
	return c, nil
}
