package farmers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
)

// Repository exposes farmer profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a farmer profile repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUserID loads the profile owned by the given user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUserIDs loads profiles for a batch of users, keyed by owner.
func (r *Repository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.FarmerProfile, error) {
	if len(userIDs) == 0 {
		return map[uuid.UUID]models.FarmerProfile{}, nil
	}
	var rows []models.FarmerProfile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.FarmerProfile, len(rows))
	for _, row := range rows {
		out[row.UserID] = row
	}
	return out, nil
}

// Save persists a profile row, inserting or updating as needed.
func (r *Repository) Save(ctx context.Context, profile *models.FarmerProfile) (*models.FarmerProfile, error) {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// SetVerified flips the moderation flag on a farmer's profile.
func (r *Repository) SetVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.FarmerProfile{}).
		Where("user_id = ?", userID).
		Update("is_verified", verified)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
