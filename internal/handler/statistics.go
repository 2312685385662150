package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/service"
)

// StatsHandler serves the admin statistics endpoints.  The router puts
// them behind JWTAuth and RequireAdmin.
type StatsHandler struct {
	Stats *service.StatsService
	Log   *zap.Logger
}

func NewStatsHandler(stats *service.StatsService, log *zap.Logger) *StatsHandler {
	return &StatsHandler{Stats: stats, Log: log}
}

type productStatResp struct {
	ProductID      uint64  `json:"product_id"`
	Name           string  `json:"name"`
	TotalUnitsSold int64   `json:"total_units_sold"`
	TotalRevenue   float64 `json:"total_revenue"`
}

type userStatResp struct {
	CustomerID uint64  `json:"customer_id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	OrderCount int64   `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}

// Products: GET /statistics/products
func (h *StatsHandler) Products(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	stats, err := h.Stats.ProductStats(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	out := make([]productStatResp, 0, len(stats))
	for _, s := range stats {
		out = append(out, productStatResp{
			ProductID:      s.ProductID,
			Name:           s.Name,
			TotalUnitsSold: s.TotalUnitsSold,
			TotalRevenue:   s.TotalRevenue.InexactFloat64(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Users: GET /statistics/users
func (h *StatsHandler) Users(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	stats, err := h.Stats.UserStats(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	out := make([]userStatResp, 0, len(stats))
	for _, s := range stats {
		out = append(out, userStatResp{
			CustomerID: s.CustomerID,
			Email:      s.Email,
			FirstName:  s.FirstName,
			LastName:   s.LastName,
			OrderCount: s.OrderCount,
			TotalSpent: s.TotalSpent.InexactFloat64(),
		})
	}
	return c.JSON(http.StatusOK, out)
}
