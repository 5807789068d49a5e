package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/pagination"
)

// ProductDTO is the wire representation of a listing.
type ProductDTO struct {
	ID                uuid.UUID       `json:"id"`
	FarmerID          uuid.UUID       `json:"farmer"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	CategoryID        uuid.UUID       `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Unit              string          `json:"unit"`
	QuantityAvailable int             `json:"quantityAvailable"`
	Images            []string        `json:"images"`
	IsOrganic         bool            `json:"isOrganic"`
	IsFeatured        bool            `json:"isFeatured"`
	IsActive          bool            `json:"isActive"`
	HarvestDate       *time.Time      `json:"harvestDate,omitempty"`
	AvailableUntil    *time.Time      `json:"availableUntil,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// CreateProductRequest carries the payload for a new listing.
type CreateProductRequest struct {
	Name              string          `json:"name" validate:"required,min=2,max=200"`
	Description       string          `json:"description" validate:"max=2000"`
	CategoryID        uuid.UUID       `json:"category" validate:"required"`
	Price             decimal.Decimal `json:"price" validate:"required"`
	Unit              string          `json:"unit" validate:"required,max=50"`
	QuantityAvailable int             `json:"quantityAvailable" validate:"min=0"`
	Images            []string        `json:"images" validate:"max=10"`
	IsOrganic         bool            `json:"isOrganic"`
	IsFeatured        bool            `json:"isFeatured"`
	HarvestDate       *time.Time      `json:"harvestDate"`
	AvailableUntil    *time.Time      `json:"availableUntil"`
}

// UpdateProductRequest applies a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=2,max=200"`
	Description       *string          `json:"description" validate:"omitempty,max=2000"`
	CategoryID        *uuid.UUID       `json:"category"`
	Price             *decimal.Decimal `json:"price"`
	Unit              *string          `json:"unit" validate:"omitempty,max=50"`
	QuantityAvailable *int             `json:"quantityAvailable" validate:"omitempty,min=0"`
	Images            []string         `json:"images" validate:"omitempty,max=10"`
	IsOrganic         *bool            `json:"isOrganic"`
	IsFeatured        *bool            `json:"isFeatured"`
	IsActive          *bool            `json:"isActive"`
	HarvestDate       *time.Time       `json:"harvestDate"`
	AvailableUntil    *time.Time       `json:"availableUntil"`
}

// ListFilters describe the supported filter knobs for the public browse endpoint.
type ListFilters struct {
	Search     string
	CategoryID *uuid.UUID
	FarmerID   *uuid.UUID
}

// ListInput captures the inputs needed to paginate/filter the public catalog.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ProductList is a single page of listings plus the cursor for the next one.
type ProductList struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel maps a persisted product to its DTO.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:                p.ID,
		FarmerID:          p.FarmerID,
		Name:              p.Name,
		Description:       p.Description,
		CategoryID:        p.CategoryID,
		Price:             p.Price,
		Unit:              p.Unit,
		QuantityAvailable: p.QuantityAvailable,
		Images:            p.Images,
		IsOrganic:         p.IsOrganic,
		IsFeatured:        p.IsFeatured,
		IsActive:          p.IsActive,
		HarvestDate:       p.HarvestDate,
		AvailableUntil:    p.AvailableUntil,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// FromModels maps a slice of products.
func FromModels(list []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
