package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is an admin-curated produce grouping.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	Icon        string    `gorm:"column:icon" json:"icon,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
