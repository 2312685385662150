package service_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/clothing-store/internal/config"
	"github.com/iliyamo/clothing-store/internal/database/dbtest"
	"github.com/iliyamo/clothing-store/internal/model"
	"github.com/iliyamo/clothing-store/internal/queue"
	"github.com/iliyamo/clothing-store/internal/repository"
	"github.com/iliyamo/clothing-store/internal/service"
	"github.com/iliyamo/clothing-store/internal/utils"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.OrderPlacedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, ev queue.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fixture struct {
	db        *sql.DB
	customers *repository.CustomerRepo
	auth      *service.AuthService
	orders    *service.OrderService
	catalog   *service.CatalogService
	admin     *service.CustomerService
	stats     *service.StatsService
	pub       *recordingPublisher
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", AccessTTLMin: 60, BcryptCost: bcrypt.MinCost}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	customers := repository.NewCustomerRepo(db)
	products := repository.NewProductRepo(db)
	auth := service.NewAuthService(customers, testConfig())
	pub := &recordingPublisher{}
	return &fixture{
		db:        db,
		customers: customers,
		auth:      auth,
		orders:    service.NewOrderService(db, products, repository.NewOrderRepo(db), pub, zap.NewNop()),
		catalog:   service.NewCatalogService(repository.NewCategoryRepo(db), products),
		admin:     service.NewCustomerService(customers, auth, zap.NewNop()),
		stats:     service.NewStatsService(repository.NewStatsRepo(db)),
		pub:       pub,
	}
}

func (f *fixture) register(t *testing.T, email string) model.Customer {
	t.Helper()
	ctx := context.Background()
	_, err := f.auth.Register(ctx, service.Registration{FirstName: "Ada", LastName: "Lovelace", Email: email, Password: "pw-" + email})
	require.NoError(t, err)
	c, err := f.customers.GetByEmail(ctx, email)
	require.NoError(t, err)
	return c
}

func TestRegisterLoginResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.auth.Register(ctx, service.Registration{FirstName: "Ada", LastName: "Lovelace", Email: "Ada@Example.com", Password: "hunter2"})
	require.NoError(t, err)

	tok, err := f.auth.Login(ctx, "ada@example.com", "hunter2")
	require.NoError(t, err)

	c, err := f.auth.Resolve(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.Equal(t, model.RoleCustomer, c.Role)

	sub, err := utils.ParseAccessToken("test-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", sub)
}

func TestRegisterRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "taken@example.com")

	_, err := f.auth.Register(ctx, service.Registration{FirstName: "A", LastName: "B", Email: "TAKEN@example.com", Password: "x"})
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = f.auth.Register(ctx, service.Registration{FirstName: " ", LastName: "B", Email: "new@example.com", Password: "x"})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Contains(t, err.Error(), "first_name")

	_, err = f.auth.Register(ctx, service.Registration{FirstName: "A", LastName: "B", Email: "new@example.com"})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, 1, dbtest.Count(t, f.db, "customers"))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com")

	_, wrongPassword := f.auth.Login(ctx, "ada@example.com", "nope")
	_, unknownEmail := f.auth.Login(ctx, "ghost@example.com", "nope")
	require.Error(t, wrongPassword)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
	assert.Equal(t, "incorrect email or password", wrongPassword.Error())
}

func TestResolveRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.register(t, "gone@example.com")

	expired, err := utils.NewAccessToken("test-secret", c.Email, -time.Minute)
	require.NoError(t, err)
	foreign, err := utils.NewAccessToken("other-secret", c.Email, time.Hour)
	require.NoError(t, err)
	valid, err := f.auth.Login(ctx, c.Email, "pw-"+c.Email)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":   "",
		"garbage": "abc",
		"expired": expired.Token,
		"foreign": foreign.Token,
	} {
		_, err := f.auth.Resolve(ctx, raw)
		assert.ErrorIs(t, err, service.ErrSession, name)
	}

	require.NoError(t, f.admin.Delete(ctx, c.ID))
	_, err = f.auth.Resolve(ctx, valid.Token)
	assert.ErrorIs(t, err, service.ErrSession)
}

func TestRequireAdmin(t *testing.T) {
	_, err := service.RequireAdmin(model.Customer{Role: model.RoleCustomer})
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = service.RequireAdmin(model.Customer{Role: ""})
	assert.ErrorIs(t, err, service.ErrForbidden)

	admin := model.Customer{ID: 1, Role: model.RoleAdmin}
	got, err := service.RequireAdmin(admin)
	require.NoError(t, err)
	assert.Equal(t, admin, got)
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.register(t, "buyer@example.com")
	id := dbtest.Product(t, f.db, dbtest.Category(t, f.db, "Tees"), "Tee", "12.50", 5)

	r, err := f.orders.PlaceOrder(ctx, c, id, 2)
	require.NoError(t, err)
	assert.NotZero(t, r.OrderID)
	assert.Equal(t, "Tee", r.ProductName)
	assert.Equal(t, "25.00", r.TotalPrice.StringFixed(2))
	assert.Equal(t, service.OrderPlacedMessage, r.Message)
	assert.Equal(t, 3, dbtest.Stock(t, f.db, id))

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, r.OrderID, f.pub.events[0].OrderID)
	assert.Equal(t, "buyer@example.com", f.pub.events[0].CustomerEmail)
	assert.Equal(t, "25.00", f.pub.events[0].TotalPrice)

	lines, err := f.orders.ListOrders(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestPlaceOrderIgnoresPublishFailure(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")
	c := f.register(t, "buyer@example.com")
	id := dbtest.Product(t, f.db, dbtest.Category(t, f.db, "Tees"), "Tee", "1.00", 1)
	core, logs := observer.New(zap.WarnLevel)
	orders := service.NewOrderService(f.db, repository.NewProductRepo(f.db), repository.NewOrderRepo(f.db), f.pub, zap.New(core))

	_, err := orders.PlaceOrder(context.Background(), c, id, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, dbtest.Stock(t, f.db, id))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "order event not published", logs.All()[0].Message)
}

func TestFailedOrdersLeaveStateUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.register(t, "buyer@example.com")
	id := dbtest.Product(t, f.db, dbtest.Category(t, f.db, "Tees"), "Tee", "12.50", 2)

	cases := []struct {
		name      string
		productID uint64
		qty       int
		want      error
	}{
		{"missing product id", 0, 1, service.ErrValidation},
		{"zero quantity", id, 0, service.ErrValidation},
		{"negative quantity", id, -3, service.ErrValidation},
		{"unknown product", 999, 1, service.ErrInsufficientStock},
		{"more than stock", id, 3, service.ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.PlaceOrder(ctx, c, tc.productID, tc.qty)
			var oe *service.OrderError
			require.True(t, errors.As(err, &oe), "got %T", err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 2, dbtest.Stock(t, f.db, id))
			assert.Equal(t, 0, dbtest.Count(t, f.db, "orders"))
			assert.Equal(t, 0, dbtest.Count(t, f.db, "order_items"))
		})
	}
	assert.Empty(t, f.pub.events)
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	f := newFixture(t)
	c := f.register(t, "rush@example.com")
	const stock, buyers = 3, 12
	id := dbtest.Product(t, f.db, dbtest.Category(t, f.db, "Drops"), "Limited Hoodie", "80.00", stock)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orders.PlaceOrder(context.Background(), c, id, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			if errors.Is(err, service.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, stock, succeeded)
	assert.Equal(t, buyers-stock, rejected)
	assert.Equal(t, 0, dbtest.Stock(t, f.db, id))
	assert.Equal(t, stock, dbtest.Count(t, f.db, "orders"))
}

// staleStock reports the stock a transaction saw before another order
// took it: the read claims units that the row no longer has.
type staleStock struct {
	*repository.ProductRepo
	stock int
}

func (s staleStock) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Product, error) {
	p, err := s.ProductRepo.GetByIDTx(ctx, tx, id)
	p.Stock = s.stock
	return p, err
}

func TestPlaceOrderLosesRaceAfterStockCheck(t *testing.T) {
	f := newFixture(t)
	c := f.register(t, "late@example.com")
	id := dbtest.Product(t, f.db, dbtest.Category(t, f.db, "Drops"), "Limited Hoodie", "80.00", 0)

	products := staleStock{ProductRepo: repository.NewProductRepo(f.db), stock: 3}
	orders := service.NewOrderService(f.db, products, repository.NewOrderRepo(f.db), f.pub, zap.NewNop())

	_, err := orders.PlaceOrder(context.Background(), c, id, 1)
	var oe *service.OrderError
	require.ErrorAs(t, err, &oe)
	assert.ErrorIs(t, err, service.ErrInsufficientStock)
	assert.Equal(t, id, oe.ProductID)
	assert.Equal(t, 1, oe.Quantity)

	assert.Equal(t, 0, dbtest.Stock(t, f.db, id))
	assert.Equal(t, 0, dbtest.Count(t, f.db, "orders"))
	assert.Equal(t, 0, dbtest.Count(t, f.db, "order_items"))
	assert.Empty(t, f.pub.events)
}

func TestStatsFixture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.register(t, "buyer@example.com")
	id := dbtest.Product(t, f.db, dbtest.Category(t, f.db, "Tees"), "Tee", "10.00", 10)

	empty, err := f.stats.ProductStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.orders.PlaceOrder(ctx, c, id, 2)
	require.NoError(t, err)
	_, err = f.orders.PlaceOrder(ctx, c, id, 3)
	require.NoError(t, err)

	ps, err := f.stats.ProductStats(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, int64(5), ps[0].TotalUnitsSold)
	assert.True(t, ps[0].TotalRevenue.Equal(decimal.NewFromInt(50)), ps[0].TotalRevenue.String())

	us, err := f.stats.UserStats(ctx)
	require.NoError(t, err)
	require.Len(t, us, 1)
	assert.Equal(t, int64(2), us[0].OrderCount)
	assert.True(t, us[0].TotalSpent.Equal(decimal.NewFromInt(50)))
}

func TestCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.CreateCategory(ctx, "  ")
	assert.ErrorIs(t, err, service.ErrValidation)

	cat, err := f.catalog.CreateCategory(ctx, "Jeans")
	require.NoError(t, err)

	got, err := f.catalog.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, cat, got)
	_, err = f.catalog.GetCategory(ctx, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)

	p, err := f.catalog.CreateProduct(ctx, service.NewProduct{Name: "Slim", CategoryID: cat.ID, Price: decimal.RequireFromString("49.899"), Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, "49.90", p.Price.StringFixed(2))
	assert.Equal(t, "Jeans", p.CategoryName)

	_, err = f.catalog.CreateProduct(ctx, service.NewProduct{Name: "Ghost", CategoryID: 404, Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.catalog.CreateProduct(ctx, service.NewProduct{Name: "Neg", CategoryID: cat.ID, Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, service.ErrValidation)
	_, err = f.catalog.CreateProduct(ctx, service.NewProduct{Name: "Neg", CategoryID: cat.ID, Stock: -1})
	assert.ErrorIs(t, err, service.ErrValidation)

	list, err := f.catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCustomerAdministration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.admin.Delete(ctx, 12345))

	buyer := f.register(t, "buyer@example.com")
	id := dbtest.Product(t, f.db, dbtest.Category(t, f.db, "Tees"), "Tee", "1.00", 1)
	_, err := f.orders.PlaceOrder(ctx, buyer, id, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, f.admin.Delete(ctx, buyer.ID), service.ErrConflict)

	adminID, created, err := f.admin.EnsureAdmin(ctx, service.Registration{FirstName: "Root", LastName: "Admin", Email: "root@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, created)
	c, err := f.customers.GetByID(ctx, adminID)
	require.NoError(t, err)
	assert.True(t, c.IsAdmin())

	promotedID, created, err := f.admin.EnsureAdmin(ctx, service.Registration{Email: "buyer@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, buyer.ID, promotedID)
	c, err = f.customers.GetByID(ctx, buyer.ID)
	require.NoError(t, err)
	assert.True(t, c.IsAdmin())
}
