package model

import "github.com/shopspring/decimal"

// Category groups products.  Categories are created once and never
// updated.
type Category struct {
	ID   uint64 // categories.category_id
	Name string // categories.name
}

// Product is a sellable item.  Price is a non-negative decimal with two
// fractional digits in the database; Stock is never negative and only
// the order workflow decrements it.
type Product struct {
	ID           uint64          // products.product_id
	Name         string          // products.name
	CategoryID   uint64          // products.category_id
	CategoryName string          // categories.name (joined)
	Price        decimal.Decimal // products.price
	Stock        int             // products.stock
}
