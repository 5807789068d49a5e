package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a farmer's listing. The farmer and category references
// are non-owning: deleting either leaves the product's ids dangling, and
// readers must treat a failed lookup as "record no longer exists".
type Product struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FarmerID          uuid.UUID       `gorm:"column:farmer_id;type:uuid;not null;index" json:"farmer"`
	Name              string          `gorm:"column:name;not null" json:"name"`
	Description       string          `gorm:"column:description;not null" json:"description"`
	CategoryID        uuid.UUID       `gorm:"column:category_id;type:uuid;not null;index" json:"category"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Unit              string          `gorm:"column:unit;not null" json:"unit"`
	QuantityAvailable int             `gorm:"column:quantity_available;not null" json:"quantityAvailable"`
	Images            pq.StringArray  `gorm:"column:images;type:text[]" json:"images"`
	IsOrganic         bool            `gorm:"column:is_organic;not null;default:false" json:"isOrganic"`
	IsFeatured        bool            `gorm:"column:is_featured;not null;default:false" json:"isFeatured"`
	// No gorm default tag: a default would make GORM drop a false value from
	// the insert, resurrecting intentionally inactive products.
	IsActive          bool            `gorm:"column:is_active;not null" json:"isActive"`
	HarvestDate       *time.Time      `gorm:"column:harvest_date" json:"harvestDate,omitempty"`
	AvailableUntil    *time.Time      `gorm:"column:available_until" json:"availableUntil,omitempty"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
