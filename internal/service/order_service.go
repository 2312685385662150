package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/model"
	"github.com/iliyamo/clothing-store/internal/queue"
	"github.com/iliyamo/clothing-store/internal/repository"
)

// OrderPlacedMessage is the receipt message of a successful order.
const OrderPlacedMessage = "Order placed successfully"

// EventPublisher receives an event for every committed order.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error
}

// StockStore is the part of the product store the order workflow runs
// inside its transaction.  *repository.ProductRepo implements it.
type StockStore interface {
	GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Product, error)
	DecrementStockTx(ctx context.Context, tx *sql.Tx, id uint64, qty int) (bool, error)
}

// OrderService places orders and lists a customer's order history.
type OrderService struct {
	db        *sql.DB
	products  StockStore
	orders    *repository.OrderRepo
	publisher EventPublisher
	log       *zap.Logger
}

// NewOrderService wires the order workflow.  publisher may be nil, in
// which case no events are emitted.
func NewOrderService(db *sql.DB, products StockStore, orders *repository.OrderRepo, publisher EventPublisher, log *zap.Logger) *OrderService {
	return &OrderService{db: db, products: products, orders: orders, publisher: publisher, log: log}
}

// PlaceOrder buys quantity units of a product for the customer.  The
// stock check, the order and order-line inserts and the stock decrement
// run in one transaction; on any failure nothing is written.  Every error
// is an *OrderError.
func (s *OrderService) PlaceOrder(ctx context.Context, customer model.Customer, productID uint64, quantity int) (model.Receipt, error) {
	fail := func(err error) (model.Receipt, error) {
		return model.Receipt{}, &OrderError{ProductID: productID, Quantity: quantity, Err: err}
	}
	if productID == 0 {
		return fail(fmt.Errorf("%w: product_id is required", ErrValidation))
	}
	if quantity <= 0 {
		return fail(fmt.Errorf("%w: quantity must be a positive integer", ErrValidation))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(fmt.Errorf("begin order: %w", err))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	product, err := s.products.GetByIDTx(ctx, tx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(ErrInsufficientStock)
	}
	if err != nil {
		return fail(fmt.Errorf("load product: %w", err))
	}
	if product.Stock < quantity {
		return fail(ErrInsufficientStock)
	}

	order, err := s.orders.CreateTx(ctx, tx, customer.ID)
	if err != nil {
		return fail(fmt.Errorf("insert order: %w", err))
	}
	if _, err := s.orders.CreateItemTx(ctx, tx, order.ID, productID, quantity); err != nil {
		return fail(fmt.Errorf("insert order item: %w", err))
	}
	// A concurrent order may have taken the stock since it was read; the
	// guarded decrement then matches no row.
	ok, err := s.products.DecrementStockTx(ctx, tx, productID, quantity)
	if err != nil {
		return fail(fmt.Errorf("decrement stock: %w", err))
	}
	if !ok {
		return fail(ErrInsufficientStock)
	}
	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("commit order: %w", err))
	}
	committed = true

	total := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
	receipt := model.Receipt{
		OrderID:     order.ID,
		ProductID:   productID,
		ProductName: product.Name,
		Quantity:    quantity,
		TotalPrice:  total,
		Message:     OrderPlacedMessage,
	}
	s.log.Info("order placed",
		zap.Uint64("order_id", order.ID),
		zap.Uint64("customer_id", customer.ID),
		zap.Uint64("product_id", productID),
		zap.Int("quantity", quantity))
	s.publish(ctx, customer, receipt)
	return receipt, nil
}

// publish emits the order event.  The order is already committed, so a
// failure is only logged.
func (s *OrderService) publish(ctx context.Context, customer model.Customer, r model.Receipt) {
	if s.publisher == nil {
		return
	}
	name := strings.TrimSpace(customer.FirstName + " " + customer.LastName)
	ev := queue.NewOrderPlacedEvent(r.OrderID, customer.ID, customer.Email, name,
		r.ProductID, r.ProductName, r.Quantity, r.TotalPrice.StringFixed(2))
	if err := s.publisher.PublishOrderPlaced(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn("order event not published", zap.Uint64("order_id", r.OrderID), zap.Error(err))
	}
}

// ListOrders returns the customer's own order lines, newest first.
func (s *OrderService) ListOrders(ctx context.Context, customerID uint64) ([]model.OrderLine, error) {
	lines, err := s.orders.ListLinesByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return lines, nil
}
