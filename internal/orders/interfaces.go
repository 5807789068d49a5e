package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
	"github.com/kisanbazar/kisanbazar-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByConsumer(ctx context.Context, consumerID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListAll(ctx context.Context, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

// ProductCatalog is the slice of the products repo the checkout flow needs.
type ProductCatalog interface {
	WithTx(tx *gorm.DB) ProductCatalog
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
}
