package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/internal/products"
	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
	"github.com/kisanbazar/kisanbazar-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByConsumer(ctx context.Context, consumerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	return r.list(ctx, params, func(qb *gorm.DB) *gorm.DB {
		return qb.Where("consumer_id = ?", consumerID)
	})
}

func (r *repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	return r.list(ctx, params, func(qb *gorm.DB) *gorm.DB {
		return qb.Where("farmer_id = ?", farmerID)
	})
}

func (r *repository) ListAll(ctx context.Context, params pagination.Params) (*OrderList, error) {
	return r.list(ctx, params, nil)
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) list(ctx context.Context, params pagination.Params, scope func(*gorm.DB) *gorm.DB) (*OrderList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items")
	if scope != nil {
		qb = scope(qb)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &OrderList{
		Orders:     FromModels(rows),
		NextCursor: nextCursor,
	}, nil
}

type productCatalog struct {
	repo *products.Repository
}

// NewProductCatalog adapts the products repository to the checkout flow.
func NewProductCatalog(repo *products.Repository) ProductCatalog {
	return productCatalog{repo: repo}
}

func (c productCatalog) WithTx(tx *gorm.DB) ProductCatalog {
	return productCatalog{repo: c.repo.WithTx(tx)}
}

func (c productCatalog) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return c.repo.FindByID(ctx, id)
}

func (c productCatalog) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return c.repo.DecrementStock(ctx, id, qty)
}
