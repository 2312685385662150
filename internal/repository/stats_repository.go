package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/clothing-store/internal/model"
)

// StatsRepo runs the read-only aggregations behind the admin statistics
// endpoints.  Revenue is quantity times the product's current price.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo returns a new StatsRepo bound to the given database.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// ProductStats returns one row per product that appears in at least one
// order line, highest revenue first.
func (r *StatsRepo) ProductStats(ctx context.Context) ([]model.ProductStat, error) {
	const q = `SELECT p.product_id, p.name, SUM(oi.quantity), SUM(oi.quantity * p.price) AS revenue
	           FROM order_items oi
	           JOIN products p ON p.product_id = oi.product_id
	           GROUP BY p.product_id, p.name
	           ORDER BY revenue DESC, p.product_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ProductStat{}
	for rows.Next() {
		var s model.ProductStat
		if err := rows.Scan(&s.ProductID, &s.Name, &s.TotalUnitsSold, &s.TotalRevenue); err != nil {
			return nil, err
		}
		s.TotalRevenue = s.TotalRevenue.Round(2)
		out = append(out, s)
	}
	return out, rows.Err()
}

// CustomerStats returns one row per customer with at least one order,
// biggest spender first.
func (r *StatsRepo) CustomerStats(ctx context.Context) ([]model.CustomerStat, error) {
	const q = `SELECT c.customer_id, c.email, c.first_name, c.last_name,
	                  COUNT(DISTINCT o.order_id), SUM(oi.quantity * p.price) AS spent
	           FROM customers c
	           JOIN orders o ON o.customer_id = c.customer_id
	           JOIN order_items oi ON oi.order_id = o.order_id
	           JOIN products p ON p.product_id = oi.product_id
	           GROUP BY c.customer_id, c.email, c.first_name, c.last_name
	           ORDER BY spent DESC, c.customer_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CustomerStat{}
	for rows.Next() {
		var s model.CustomerStat
		if err := rows.Scan(&s.CustomerID, &s.Email, &s.FirstName, &s.LastName, &s.OrderCount, &s.TotalSpent); err != nil {
			return nil, err
		}
		s.TotalSpent = s.TotalSpent.Round(2)
		out = append(out, s)
	}
	return out, rows.Err()
}
