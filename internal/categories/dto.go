package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
)

// CategoryDTO is the transport shape for catalog categories.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateCategoryRequest is the admin payload for a new category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
	Icon        string `json:"icon" validate:"max=200"`
}

// UpdateCategoryRequest carries the optional fields an admin may change.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,max=200"`
}

func FromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromModels(list []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
