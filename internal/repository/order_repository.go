package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/clothing-store/internal/model"
)

// OrderRepo provides the order and order_items writes used by the order
// workflow, plus the per-customer history read.  Writes only exist as Tx
// variants: an order and its line are always created together.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateTx inserts a new order for the customer within the scope of an
// existing transaction.  The caller must commit or rollback the
// transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, customerID uint64) (model.Order, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (customer_id, created_at) VALUES (?, ?)", customerID, now)
	if err != nil {
		return model.Order{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, err
	}
	return model.Order{ID: uint64(id), CustomerID: customerID, CreatedAt: now}, nil
}

// CreateItemTx inserts one order line.
func (r *OrderRepo) CreateItemTx(ctx context.Context, tx *sql.Tx, orderID, productID uint64, qty int) (model.OrderItem, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO order_items (order_id, product_id, quantity) VALUES (?, ?, ?)", orderID, productID, qty)
	if err != nil {
		return model.OrderItem{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.OrderItem{}, err
	}
	return model.OrderItem{ID: uint64(id), OrderID: orderID, ProductID: productID, Quantity: qty}, nil
}

// ListLinesByCustomer returns the customer's order lines, newest order
// first.  Prices are the products' current prices.
func (r *OrderRepo) ListLinesByCustomer(ctx context.Context, customerID uint64) ([]model.OrderLine, error) {
	const q = `SELECT o.order_id, o.created_at, p.product_id, p.name, oi.quantity, p.price
	           FROM orders o
	           JOIN order_items oi ON oi.order_id = o.order_id
	           JOIN products p ON p.product_id = oi.product_id
	           WHERE o.customer_id = ?
	           ORDER BY o.order_id DESC, oi.order_item_id`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.OrderLine{}
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.OrderID, &l.CreatedAt, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		l.TotalPrice = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		out = append(out, l)
	}
	return out, rows.Err()
}

// DB exposes the handle so callers can open the transaction the Tx
// methods run in.
func (r *OrderRepo) DB() *sql.DB { return r.db }
