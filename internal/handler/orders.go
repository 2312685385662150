package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/middleware"
	"github.com/iliyamo/clothing-store/internal/service"
)

// OrderHandler serves order placement and history for the authenticated
// customer.
type OrderHandler struct {
	Orders *service.OrderService
	Log    *zap.Logger
}

func NewOrderHandler(orders *service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{Orders: orders, Log: log}
}

// ----- DTOs -----

type placeOrderReq struct {
	ProductID uint64 `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type receiptResp struct {
	OrderID     uint64  `json:"order_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
	Message     string  `json:"message"`
}

type orderLineResp struct {
	OrderID     uint64    `json:"order_id"`
	CreatedAt   time.Time `json:"created_at"`
	ProductID   uint64    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalPrice  float64   `json:"total_price"`
}

// Place: POST /orders.  Field checks are left to the order workflow so
// that every rejection surfaces as an order error.
func (h *OrderHandler) Place(c echo.Context) error {
	cust, ok := middleware.CurrentCustomer(c)
	if !ok {
		return middleware.Unauthorized(c, "not authenticated")
	}
	var req placeOrderReq
	if err := bind(c, &req); err != nil {
		return h.reject(c, cust.ID, &service.OrderError{ProductID: req.ProductID, Quantity: req.Quantity, Err: err})
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	r, err := h.Orders.PlaceOrder(ctx, cust, req.ProductID, req.Quantity)
	if err != nil {
		return h.reject(c, cust.ID, err)
	}
	return c.JSON(http.StatusCreated, receiptResp{
		OrderID:     r.OrderID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		TotalPrice:  r.TotalPrice.InexactFloat64(),
		Message:     r.Message,
	})
}

// reject logs a failed placement with the requested product and quantity
// and writes the error response.
func (h *OrderHandler) reject(c echo.Context, customerID uint64, err error) error {
	var oe *service.OrderError
	if errors.As(err, &oe) {
		h.Log.Info("order rejected",
			zap.Uint64("customer_id", customerID),
			zap.Uint64("product_id", oe.ProductID),
			zap.Int("quantity", oe.Quantity),
			zap.Error(oe.Err))
	}
	return respondError(c, h.Log, err)
}

// List: GET /orders
func (h *OrderHandler) List(c echo.Context) error {
	cust, ok := middleware.CurrentCustomer(c)
	if !ok {
		return middleware.Unauthorized(c, "not authenticated")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	lines, err := h.Orders.ListOrders(ctx, cust.ID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	out := make([]orderLineResp, 0, len(lines))
	for _, l := range lines {
		out = append(out, orderLineResp{
			OrderID:     l.OrderID,
			CreatedAt:   l.CreatedAt.UTC(),
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.InexactFloat64(),
			TotalPrice:  l.TotalPrice.InexactFloat64(),
		})
	}
	return c.JSON(http.StatusOK, out)
}
