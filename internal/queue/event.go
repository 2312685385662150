// Package queue defines message payloads exchanged over the message broker
// together with the publisher and consumer that carry them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// OrderPlacedEvent is published when an order transaction commits.  It
// contains enough information for downstream consumers to notify the
// customer or log the sale without querying the primary database.
type OrderPlacedEvent struct {
	EventID       string `json:"event_id"`
	OrderID       uint64 `json:"order_id"`
	CustomerID    uint64 `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	ProductID     uint64 `json:"product_id"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
	TotalPrice    string `json:"total_price"`
	PlacedAt      string `json:"placed_at"`
}

// NewOrderPlacedEvent stamps a fresh event id and the placement time.
func NewOrderPlacedEvent(orderID, customerID uint64, email, name string, productID uint64, productName string, qty int, total string) OrderPlacedEvent {
	return OrderPlacedEvent{
		EventID:       uuid.NewString(),
		OrderID:       orderID,
		CustomerID:    customerID,
		CustomerEmail: email,
		CustomerName:  name,
		ProductID:     productID,
		ProductName:   productName,
		Quantity:      qty,
		TotalPrice:    total,
		PlacedAt:      time.Now().UTC().Format(time.RFC3339),
	}
}
