package farmers

import (
	"time"

	"github.com/google/uuid"

	"github.com/kisanbazar/kisanbazar-backend/internal/users"
	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	dbtypes "github.com/kisanbazar/kisanbazar-backend/pkg/db/types"
)

// FarmerProfileDTO is the wire representation of a farm profile.
type FarmerProfileDTO struct {
	ID               uuid.UUID             `json:"id"`
	UserID           uuid.UUID             `json:"user"`
	FarmName         string                `json:"farmName"`
	Description      string                `json:"description,omitempty"`
	FarmImages       []string              `json:"farmImages"`
	FarmingPractices []string              `json:"farmingPractices"`
	EstablishedYear  *int                  `json:"establishedYear,omitempty"`
	SocialMedia      dbtypes.SocialMedia   `json:"socialMedia"`
	BusinessHours    dbtypes.BusinessHours `json:"businessHours"`
	AcceptsPickup    bool                  `json:"acceptsPickup"`
	AcceptsDelivery  bool                  `json:"acceptsDelivery"`
	DeliveryRadius   float64               `json:"deliveryRadius"`
	IsVerified       bool                  `json:"isVerified"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

// FarmerDTO pairs a farmer's public identity with their farm profile, which
// is nil until the farmer first edits it.
type FarmerDTO struct {
	User    users.UserDTO     `json:"user"`
	Profile *FarmerProfileDTO `json:"profile,omitempty"`
}

// UpsertProfileRequest replaces the caller's farm profile wholesale; the row
// is created on first use.
type UpsertProfileRequest struct {
	FarmName         string                `json:"farmName" validate:"required,min=2,max=200"`
	Description      string                `json:"description" validate:"max=2000"`
	FarmImages       []string              `json:"farmImages" validate:"max=10"`
	FarmingPractices []string              `json:"farmingPractices" validate:"max=20"`
	EstablishedYear  *int                  `json:"establishedYear"`
	SocialMedia      dbtypes.SocialMedia   `json:"socialMedia"`
	BusinessHours    dbtypes.BusinessHours `json:"businessHours"`
	AcceptsPickup    bool                  `json:"acceptsPickup"`
	AcceptsDelivery  bool                  `json:"acceptsDelivery"`
	DeliveryRadius   float64               `json:"deliveryRadius" validate:"min=0"`
}

// VerifyRequest toggles the admin-managed verification flag.
type VerifyRequest struct {
	IsVerified bool `json:"isVerified"`
}

// FromProfileModel maps a persisted profile to its DTO.
func FromProfileModel(p *models.FarmerProfile) *FarmerProfileDTO {
	if p == nil {
		return nil
	}
	return &FarmerProfileDTO{
		ID:               p.ID,
		UserID:           p.UserID,
		FarmName:         p.FarmName,
		Description:      p.Description,
		FarmImages:       p.FarmImages,
		FarmingPractices: p.FarmingPractices,
		EstablishedYear:  p.EstablishedYear,
		SocialMedia:      p.SocialMedia,
		BusinessHours:    p.BusinessHours,
		AcceptsPickup:    p.AcceptsPickup,
		AcceptsDelivery:  p.AcceptsDelivery,
		DeliveryRadius:   p.DeliveryRadius,
		IsVerified:       p.IsVerified,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
