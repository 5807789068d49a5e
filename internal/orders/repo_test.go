package orders

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

	"github.com/kisanbazar/kisanbazar-backend/internal/products"
	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	dbtypes "github.com/kisanbazar/kisanbazar-backend/pkg/db/types"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
	"github.com/kisanbazar/kisanbazar-backend/pkg/pagination"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func setupOrdersTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := "file:" + name + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS products (
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
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  consumer_id TEXT NOT NULL,
  farmer_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  pickup_details TEXT,
  delivery_details TEXT,
  payment_method TEXT NOT NULL DEFAULT 'cash',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL
);`,
	}
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

func seedCheckoutProduct(t *testing.T, db *gorm.DB, farmerID uuid.UUID, name string, price int64, qty int) *models.Product {
	t.Helper()
	repo := products.NewRepository(db)
	p, err := repo.Create(context.Background(), &models.Product{
		FarmerID:          farmerID,
		Name:              name,
		CategoryID:        uuid.New(),
		Price:             decimal.NewFromInt(price),
		Unit:              "kg",
		QuantityAvailable: qty,
		IsActive:          true,
	})
	require.NoError(t, err)
	return p
}

func newCheckoutService(t *testing.T, db *gorm.DB, decrement bool) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:           NewRepository(db),
		Catalog:        NewProductCatalog(products.NewRepository(db)),
		Tx:             gormTxRunner{db: db},
		DecrementStock: decrement,
	})
	require.NoError(t, err)
	return svc
}

func pickupReq(items ...OrderItemRequest) CreateOrderRequest {
	return CreateOrderRequest{
		Items:         items,
		PickupDetails: &dbtypes.PickupDetails{Location: "farm gate"},
	}
}

func TestCheckoutCapturesPriceAndTotal(t *testing.T) {
	db := setupOrdersTestDB(t, "orders_checkout")
	svc := newCheckoutService(t, db, false)
	ctx := context.Background()

	farmer := uuid.New()
	consumer := uuid.New()
	product := seedCheckoutProduct(t, db, farmer, "Apples", 10, 5)

	order, err := svc.Create(ctx, consumer, pickupReq(OrderItemRequest{ProductID: product.ID, Quantity: 3}))
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(30)), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, farmer, order.FarmerID)

	// A later price change must not touch the captured line price.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", decimal.NewFromInt(99)).Error)

	reloaded, err := svc.Get(ctx, consumer, enums.RoleConsumer, order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Items[0].Price.Equal(decimal.NewFromInt(10)))
	assert.True(t, reloaded.TotalAmount.Equal(decimal.NewFromInt(30)))

	// Legacy behavior: stock is validated but never decremented.
	var remaining models.Product
	require.NoError(t, db.First(&remaining, "id = ?", product.ID).Error)
	assert.Equal(t, 5, remaining.QuantityAvailable)
}

func TestCheckoutInsufficientStockLeavesNothingBehind(t *testing.T) {
	db := setupOrdersTestDB(t, "orders_stock")
	// Decrement enabled so the first line writes before the second one fails.
	svc := newCheckoutService(t, db, true)
	ctx := context.Background()

	farmer := uuid.New()
	good := seedCheckoutProduct(t, db, farmer, "Beets", 5, 10)
	scarce := seedCheckoutProduct(t, db, farmer, "Truffles", 100, 1)

	_, err := svc.Create(ctx, uuid.New(), pickupReq(
		OrderItemRequest{ProductID: good.ID, Quantity: 2},
		OrderItemRequest{ProductID: scarce.ID, Quantity: 3},
	))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount, "no partial order persisted")
	assert.Zero(t, itemCount)

	// The first line's decrement rolled back with the transaction.
	var untouched models.Product
	require.NoError(t, db.First(&untouched, "id = ?", good.ID).Error)
	assert.Equal(t, 10, untouched.QuantityAvailable)
}

func TestCheckoutMissingProduct(t *testing.T) {
	db := setupOrdersTestDB(t, "orders_missing")
	svc := newCheckoutService(t, db, false)

	_, err := svc.Create(context.Background(), uuid.New(), pickupReq(
		OrderItemRequest{ProductID: uuid.New(), Quantity: 1},
	))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCheckoutDecrementsStockWhenEnabled(t *testing.T) {
	db := setupOrdersTestDB(t, "orders_decrement")
	svc := newCheckoutService(t, db, true)
	ctx := context.Background()

	farmer := uuid.New()
	product := seedCheckoutProduct(t, db, farmer, "Corn", 4, 8)

	_, err := svc.Create(ctx, uuid.New(), pickupReq(OrderItemRequest{ProductID: product.ID, Quantity: 3}))
	require.NoError(t, err)

	var remaining models.Product
	require.NoError(t, db.First(&remaining, "id = ?", product.ID).Error)
	assert.Equal(t, 5, remaining.QuantityAvailable)
}

func TestOrderRepoListsAndPagination(t *testing.T) {
	db := setupOrdersTestDB(t, "orders_lists")
	repo := NewRepository(db)
	ctx := context.Background()

	consumer := uuid.New()
	farmer := uuid.New()
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &models.Order{
			ConsumerID:    consumer,
			FarmerID:      farmer,
			TotalAmount:   decimal.NewFromInt(int64(10 + i)),
			Status:        enums.OrderStatusPending,
			PaymentMethod: enums.PaymentMethodCash,
			CreatedAt:     base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &models.Order{
		ConsumerID:    uuid.New(),
		FarmerID:      uuid.New(),
		TotalAmount:   decimal.NewFromInt(99),
		Status:        enums.OrderStatusPending,
		PaymentMethod: enums.PaymentMethodCash,
		CreatedAt:     base.Add(time.Minute),
	})
	require.NoError(t, err)

	mine, err := repo.ListByConsumer(ctx, consumer, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, mine.Orders, 2)
	require.NotEmpty(t, mine.NextCursor)

	rest, err := repo.ListByConsumer(ctx, consumer, pagination.Params{Limit: 2, Cursor: mine.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Orders, 1)
	assert.Empty(t, rest.NextCursor)

	farmers, err := repo.ListByFarmer(ctx, farmer, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, farmers.Orders, 3)

	all, err := repo.ListAll(ctx, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all.Orders, 4)
}
