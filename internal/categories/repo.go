package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
)

// Repository exposes category persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a categories repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new category.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// List returns all categories sorted by name.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID loads a category by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update applies the provided column updates.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes a category row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
