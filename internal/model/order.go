package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order records a purchase by a customer.  Orders are never updated.
type Order struct {
	ID         uint64    // orders.order_id
	CustomerID uint64    // orders.customer_id
	CreatedAt  time.Time // orders.created_at
}

// OrderItem links an order to a product and a quantity.  No price is
// stored; monetary values are derived from the product's current price.
type OrderItem struct {
	ID        uint64 // order_items.order_item_id
	OrderID   uint64 // order_items.order_id
	ProductID uint64 // order_items.product_id
	Quantity  int    // order_items.quantity
}

// OrderLine is one line of a customer's order history, joined with the
// product and priced at the product's current price.
type OrderLine struct {
	OrderID     uint64
	CreatedAt   time.Time
	ProductID   uint64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// Receipt is returned after an order is placed.
type Receipt struct {
	OrderID     uint64
	ProductID   uint64
	ProductName string
	Quantity    int
	TotalPrice  decimal.Decimal
	Message     string
}

// ProductStat aggregates the order lines of one product.
type ProductStat struct {
	ProductID      uint64
	Name           string
	TotalUnitsSold int64
	TotalRevenue   decimal.Decimal
}

// CustomerStat aggregates the orders of one customer.
type CustomerStat struct {
	CustomerID uint64
	Email      string
	FirstName  string
	LastName   string
	OrderCount int64
	TotalSpent decimal.Decimal
}
