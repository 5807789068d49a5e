package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	dbtypes "github.com/kisanbazar/kisanbazar-backend/pkg/db/types"
)

// FarmerProfile is the public farm page backing a farmer account (1:1),
// created lazily on the first profile edit.
type FarmerProfile struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID             `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user"`
	FarmName         string                `gorm:"column:farm_name;not null" json:"farmName"`
	Description      string                `gorm:"column:description" json:"description"`
	FarmImages       pq.StringArray        `gorm:"column:farm_images;type:text[]" json:"farmImages"`
	FarmingPractices pq.StringArray        `gorm:"column:farming_practices;type:text[]" json:"farmingPractices"`
	EstablishedYear  *int                  `gorm:"column:established_year" json:"establishedYear,omitempty"`
	SocialMedia      dbtypes.SocialMedia   `gorm:"column:social_media;type:jsonb" json:"socialMedia"`
	BusinessHours    dbtypes.BusinessHours `gorm:"column:business_hours;type:jsonb" json:"businessHours"`
	AcceptsPickup    bool                  `gorm:"column:accepts_pickup;not null;default:false" json:"acceptsPickup"`
	AcceptsDelivery  bool                  `gorm:"column:accepts_delivery;not null;default:false" json:"acceptsDelivery"`
	DeliveryRadius   float64               `gorm:"column:delivery_radius;not null;default:0" json:"deliveryRadius"`
	IsVerified       bool                  `gorm:"column:is_verified;not null;default:false" json:"isVerified"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (p *FarmerProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
