package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
)

// User represents the canonical identity entity. The password hash never
// leaves the persistence layer.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"column:name;not null" json:"name"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Role         enums.Role `gorm:"column:role;type:text;not null" json:"role"`
	Phone        *string    `gorm:"column:phone" json:"phone,omitempty"`
	Address      *string    `gorm:"column:address" json:"address,omitempty"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"-"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
