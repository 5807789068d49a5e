package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      enums.Role `json:"role"`
	Phone     *string    `json:"phone,omitempty"`
	Address   *string    `json:"address,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Role         enums.Role
	Phone        *string
	Address      *string
}

// UpdateProfileDTO carries the optional profile fields a user may change.
type UpdateProfileDTO struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromModels(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *FromModel(&users[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleConsumer
	}
	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         role,
		Phone:        c.Phone,
		Address:      c.Address,
	}
}
