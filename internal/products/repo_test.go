package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := "file:" + name + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category_id TEXT NOT NULL,
  price NUMERIC NOT NULL,
  unit TEXT NOT NULL,
  quantity_available INTEGER NOT NULL DEFAULT 0,
  images TEXT,
  is_organic INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  harvest_date DATETIME,
  available_until DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedProduct(t *testing.T, repo *Repository, farmerID, categoryID uuid.UUID, name string, active bool, createdAt time.Time) *models.Product {
	t.Helper()
	p := &models.Product{
		FarmerID:          farmerID,
		Name:              name,
		CategoryID:        categoryID,
		Price:             decimal.NewFromInt(10),
		Unit:              "kg",
		QuantityAvailable: 5,
		IsActive:          active,
		CreatedAt:         createdAt,
	}
	created, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

func TestProductRepoListFiltersInactive(t *testing.T) {
	db := setupProductsTestDB(t, "products_active")
	repo := NewRepository(db)

	farmer := uuid.New()
	category := uuid.New()
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	seedProduct(t, repo, farmer, category, "Tomatoes", true, base)
	seedProduct(t, repo, farmer, category, "Hidden Onions", false, base.Add(time.Second))

	list, err := repo.List(context.Background(), ListInput{Pagination: pagination.Params{Limit: 10}})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Tomatoes", list.Products[0].Name)

	// The farmer's own view still includes inactive rows.
	mine, err := repo.ListByFarmer(context.Background(), farmer)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestProductRepoListSearchAndFilters(t *testing.T) {
	db := setupProductsTestDB(t, "products_filters")
	repo := NewRepository(db)

	farmerA := uuid.New()
	farmerB := uuid.New()
	veg := uuid.New()
	fruit := uuid.New()
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	seedProduct(t, repo, farmerA, veg, "Green Spinach", true, base)
	seedProduct(t, repo, farmerA, fruit, "Mangoes", true, base.Add(time.Second))
	seedProduct(t, repo, farmerB, veg, "Spinach Bunch", true, base.Add(2*time.Second))

	list, err := repo.List(context.Background(), ListInput{
		Filters:    ListFilters{Search: "spinach"},
		Pagination: pagination.Params{Limit: 10},
	})
	require.NoError(t, err)
	assert.Len(t, list.Products, 2)

	list, err = repo.List(context.Background(), ListInput{
		Filters:    ListFilters{Search: "spinach", FarmerID: &farmerB},
		Pagination: pagination.Params{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Spinach Bunch", list.Products[0].Name)

	list, err = repo.List(context.Background(), ListInput{
		Filters:    ListFilters{CategoryID: &fruit},
		Pagination: pagination.Params{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Mangoes", list.Products[0].Name)
}

func TestProductRepoListPagination(t *testing.T) {
	db := setupProductsTestDB(t, "products_pagination")
	repo := NewRepository(db)

	farmer := uuid.New()
	category := uuid.New()
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	seedProduct(t, repo, farmer, category, "First", true, base)
	seedProduct(t, repo, farmer, category, "Second", true, base.Add(time.Second))
	seedProduct(t, repo, farmer, category, "Third", true, base.Add(2*time.Second))

	first, err := repo.List(context.Background(), ListInput{Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	assert.Equal(t, "Third", first.Products[0].Name, "newest first")
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(context.Background(), ListInput{Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor}})
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	assert.Equal(t, "First", second.Products[0].Name)
	assert.Empty(t, second.NextCursor)
}

func TestProductRepoDeleteMissing(t *testing.T) {
	db := setupProductsTestDB(t, "products_delete")
	repo := NewRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
