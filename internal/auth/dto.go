package auth

import (
	"github.com/kisanbazar/kisanbazar-backend/internal/users"
)

// RegisterRequest captures the payload required to create an account.
// Role is restricted to the self-service roles; admins are provisioned
// out of band.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required,oneof=consumer farmer"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the expired access token plus its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenPair is the credential set returned by login, register, and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse contains the tokens and the user produced by a successful
// login or registration.
type AuthResponse struct {
	TokenPair
	User *users.UserDTO `json:"user"`
}
