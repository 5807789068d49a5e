package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service covers profile reads/updates and the admin user surface.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, dto UpdateProfileDTO) (*UserDTO, error)
	ListAll(ctx context.Context) ([]UserDTO, error)
	DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error
}

type service struct {
	repo userRepository
}

// NewService builds the users service.
func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, dto UpdateProfileDTO) (*UserDTO, error) {
	updates := map[string]any{}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if dto.Phone != nil {
		updates["phone"] = strings.TrimSpace(*dto.Phone)
	}
	if dto.Address != nil {
		updates["address"] = strings.TrimSpace(*dto.Address)
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProfile(ctx, userID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
		}
	}
	return s.Me(ctx, userID)
}

func (s *service) ListAll(ctx context.Context) ([]UserDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return FromModels(list), nil
}

func (s *service) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete own account")
	}
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if target.Role == enums.RoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot delete an admin account")
	}
	if err := s.repo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}
