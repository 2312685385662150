package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/config"
	"github.com/iliyamo/clothing-store/internal/handler"
	"github.com/iliyamo/clothing-store/internal/middleware"
	"github.com/iliyamo/clothing-store/internal/repository"
	"github.com/iliyamo/clothing-store/internal/service"
)

// Deps carries everything the HTTP layer needs.  Redis and Publisher may
// be nil: rate limiting and order events are then disabled.
type Deps struct {
	Config    config.Config
	DB        *sql.DB
	Redis     *redis.Client
	Publisher service.EventPublisher
	Log       *zap.Logger
}

// Handlers groups the handlers built by New.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Users   *handler.UserHandler
	Orders  *handler.OrderHandler
	Stats   *handler.StatsHandler
	Auth    *service.AuthService
}

// NewHandlers wires repositories, services and handlers on top of d.DB.
func NewHandlers(d Deps) Handlers {
	customers := repository.NewCustomerRepo(d.DB)
	products := repository.NewProductRepo(d.DB)
	auth := service.NewAuthService(customers, d.Config)

	return Handlers{
		Catalog: handler.NewCatalogHandler(
			service.NewCatalogService(repository.NewCategoryRepo(d.DB), products), d.Log),
		Users: handler.NewUserHandler(auth, service.NewCustomerService(customers, auth, d.Log), d.Log),
		Orders: handler.NewOrderHandler(
			service.NewOrderService(d.DB, products, repository.NewOrderRepo(d.DB), d.Publisher, d.Log), d.Log),
		Stats: handler.NewStatsHandler(service.NewStatsService(repository.NewStatsRepo(d.DB)), d.Log),
		Auth:  auth,
	}
}

// New builds the Echo instance with the shared middleware stack and every
// route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.NewTokenBucket(d.Config.RateLimit, d.Redis, d.Log))

	h := NewHandlers(d)
	RegisterRoutes(e)
	RegisterCatalog(e, h.Catalog, h.Auth, d.Log)
	RegisterUsers(e, h.Users, h.Auth, d.Log)
	RegisterOrders(e, h.Orders, h.Auth, d.Log)
	RegisterStatistics(e, h.Stats, h.Auth, d.Log)
	return e
}
