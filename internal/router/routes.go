package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/handler"
	"github.com/iliyamo/clothing-store/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication and
// do not touch the catalog: the banner and the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers the category and product endpoints.  Browsing
// is public; creating products requires an admin.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, auth middleware.Resolver, log *zap.Logger) {
	e.GET("/categories", h.ListCategories)
	e.GET("/categories/:id", h.GetCategory)
	e.POST("/categories", h.CreateCategory)

	e.GET("/products", h.ListProducts)
	e.POST("/products", h.CreateProduct, middleware.JWTAuth(auth, log), middleware.RequireAdmin())
}

// RegisterUsers registers registration, login and the account endpoints.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, auth middleware.Resolver, log *zap.Logger) {
	e.POST("/users", h.Register)
	e.POST("/users/login", h.Login)

	requireAuth := middleware.JWTAuth(auth, log)
	e.GET("/users/me", h.Me, requireAuth)
	e.DELETE("/users/:id", h.Delete, requireAuth, middleware.RequireAdmin())
}

// RegisterOrders registers the customer order endpoints.  Both require a
// valid access token.
func RegisterOrders(e *echo.Echo, h *handler.OrderHandler, auth middleware.Resolver, log *zap.Logger) {
	g := e.Group("/orders", middleware.JWTAuth(auth, log))
	g.POST("", h.Place)
	g.GET("", h.List)
}

// RegisterStatistics registers the admin-only statistics endpoints.
func RegisterStatistics(e *echo.Echo, h *handler.StatsHandler, auth middleware.Resolver, log *zap.Logger) {
	g := e.Group("/statistics", middleware.JWTAuth(auth, log), middleware.RequireAdmin())
	g.GET("/products", h.Products)
	g.GET("/users", h.Users)
}
