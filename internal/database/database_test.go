package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/clothing-store/internal/database"
	"github.com/iliyamo/clothing-store/internal/database/dbtest"
)

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, database.EnsureSchema(context.Background(), db, "sqlite3"))

	for _, table := range []string{"categories", "products", "customers", "orders", "order_items"} {
		assert.Equal(t, 0, dbtest.Count(t, db, table), table)
	}
}

func TestSeedOnlyFillsEmptyCatalog(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	inserted, err := database.Seed(ctx, db)
	require.NoError(t, err)
	assert.True(t, inserted)
	categories := dbtest.Count(t, db, "categories")
	products := dbtest.Count(t, db, "products")
	assert.Equal(t, 4, categories)
	assert.Equal(t, 7, products)

	inserted, err = database.Seed(ctx, db)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, categories, dbtest.Count(t, db, "categories"))
	assert.Equal(t, products, dbtest.Count(t, db, "products"))
}

func TestSchemaRejectsNegativeStock(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Category(t, db, "Hats")
	id := dbtest.Product(t, db, cat, "Beanie", "9.00", 1)

	_, err := db.Exec("UPDATE products SET stock = -1 WHERE product_id = ?", id)
	assert.Error(t, err)
	assert.Equal(t, 1, dbtest.Stock(t, db, id))
}
