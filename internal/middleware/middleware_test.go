package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/clothing-store/internal/config"
	"github.com/iliyamo/clothing-store/internal/model"
	"github.com/iliyamo/clothing-store/internal/service"
)

type resolverFunc func(ctx context.Context, raw string) (model.Customer, error)

func (f resolverFunc) Resolve(ctx context.Context, raw string) (model.Customer, error) {
	return f(ctx, raw)
}

var ada = model.Customer{ID: 7, Email: "ada@example.com", Role: model.RoleCustomer}

func fakeResolver(_ context.Context, raw string) (model.Customer, error) {
	switch raw {
	case "good":
		return ada, nil
	case "admin":
		return model.Customer{ID: 1, Email: "root@example.com", Role: model.RoleAdmin}, nil
	case "broken":
		return model.Customer{}, errors.New("db down")
	}
	return model.Customer{}, service.ErrSession
}

func newEcho() *echo.Echo {
	e := echo.New()
	g := e.Group("", JWTAuth(resolverFunc(fakeResolver), zap.NewNop()))
	g.GET("/me", func(c echo.Context) error {
		cust, ok := CurrentCustomer(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, echo.Map{"email": cust.Email})
	})
	g.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireAdmin())
	return e
}

func do(e *echo.Echo, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := newEcho()

	rec := do(e, "/me", "Bearer good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"ada@example.com"}`, rec.Body.String())

	for _, auth := range []string{"", "Bearer", "Bearer ", "Basic abc", "Bearer expired"} {
		rec := do(e, "/me", auth)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, auth)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate), auth)
	}

	rec = do(e, "/me", "Bearer broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	e := newEcho()
	assert.Equal(t, http.StatusForbidden, do(e, "/admin", "Bearer good").Code)
	assert.Equal(t, http.StatusOK, do(e, "/admin", "Bearer admin").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, "/admin", "").Code)

	bare := echo.New()
	bare.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireAdmin())
	assert.Equal(t, http.StatusUnauthorized, do(bare, "/admin", "").Code)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/orders")

	cfg := config.RateLimitConfig{Prefix: "rl"}
	assert.Equal(t, "rl:ip:10.0.0.9:user:anon:route:POST /orders", buildRateKey(cfg, c))

	SetCustomer(c, ada)
	cfg.KeyStrategy = "USER"
	assert.Equal(t, "rl:user:7", buildRateKey(cfg, c))
	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl:ip:10.0.0.9:route:POST /orders", buildRateKey(cfg, c))
}

func TestParseBucketResult(t *testing.T) {
	res, ok := parseBucketResult([]interface{}{int64(1), int64(4), int64(0)})
	require.True(t, ok)
	assert.Equal(t, bucketResult{allowed: true, remaining: 4}, res)

	res, ok = parseBucketResult([]interface{}{int64(0), "0", float64(250)})
	require.True(t, ok)
	assert.Equal(t, bucketResult{retryMs: 250}, res)

	_, ok = parseBucketResult("nope")
	assert.False(t, ok)
	_, ok = parseBucketResult([]interface{}{int64(1)})
	assert.False(t, ok)
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, zap.NewNop()))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, do(e, "/", "").Code)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	do(e, "/healthz", "")
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/healthz", fields["uri"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}
