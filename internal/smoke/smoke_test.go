package smoke_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/clothing-store/internal/config"
	"github.com/iliyamo/clothing-store/internal/database"
	"github.com/iliyamo/clothing-store/internal/database/dbtest"
	"github.com/iliyamo/clothing-store/internal/router"
	"github.com/iliyamo/clothing-store/internal/smoke"
)

func TestRunAgainstSeededStore(t *testing.T) {
	db := dbtest.Open(t)
	_, err := database.Seed(context.Background(), db)
	require.NoError(t, err)

	cfg := config.Config{JWTSecret: "smoke-secret", AccessTTLMin: 60, BcryptCost: bcrypt.MinCost}
	srv := httptest.NewServer(router.New(router.Deps{Config: cfg, DB: db, Log: zap.NewNop()}))
	defer srv.Close()

	var out bytes.Buffer
	c := &smoke.Client{BaseURL: srv.URL, HTTP: srv.Client(), Out: &out}
	require.NoError(t, c.Run(context.Background()), out.String())
	assert.Contains(t, out.String(), "admin probe: correctly blocked")
	assert.Equal(t, 1, dbtest.Count(t, db, "orders"))
}

func TestRunFailsOnEmptyCatalog(t *testing.T) {
	db := dbtest.Open(t)
	cfg := config.Config{JWTSecret: "smoke-secret", AccessTTLMin: 60, BcryptCost: bcrypt.MinCost}
	srv := httptest.NewServer(router.New(router.Deps{Config: cfg, DB: db, Log: zap.NewNop()}))
	defer srv.Close()

	c := &smoke.Client{BaseURL: srv.URL, HTTP: srv.Client()}
	err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog is empty")
}

func TestRunReportsUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := &smoke.Client{BaseURL: url, HTTP: http.DefaultClient}
	assert.Error(t, c.Run(context.Background()))
}
