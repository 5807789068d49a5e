package messages

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
)

// Repository exposes message persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a messages repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new message row.
func (r *Repository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// ListForUser returns every message the user sent or received, most recent
// first. The conversation aggregation depends on this ordering.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	var list []models.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListThread returns the two-party history in chronological order.
func (r *Repository) ListThread(ctx context.Context, userID, counterpartID uuid.UUID) ([]models.Message, error) {
	var list []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, counterpartID, counterpartID, userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// MarkRead flips every unread message from the counterpart to the caller.
// Safe to repeat; already-read rows are untouched.
func (r *Repository) MarkRead(ctx context.Context, callerID, counterpartID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", counterpartID, callerID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
