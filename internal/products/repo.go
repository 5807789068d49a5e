package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/pagination"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product without filtering on the active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update persists the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock atomically subtracts qty guarded by the current availability.
// Returns gorm.ErrRecordNotFound when the product is absent or understocked.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity_available >= ?", id, qty).
		UpdateColumn("quantity_available", gorm.Expr("quantity_available - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByFarmer returns every listing owned by the farmer, active or not.
func (r *Repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// List returns one page of active listings matching the filters.
func (r *Repository) List(ctx context.Context, input ListInput) (*ProductList, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	filters := input.Filters
	if filters.CategoryID != nil {
		qb = qb.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.FarmerID != nil {
		qb = qb.Where("farmer_id = ?", *filters.FarmerID)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(name) LIKE ?", pattern)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ProductList{
		Products:   FromModels(rows),
		NextCursor: nextCursor,
	}, nil
}
