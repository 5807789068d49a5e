package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db"
	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
)

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service covers the public reads and the admin-owned category lifecycle.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	Create(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo categoryRepository
}

// NewService builds the categories service.
func NewService(repo categoryRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categories repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return FromModel(category), nil
}

func (s *service) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error) {
	category := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Icon:        strings.TrimSpace(req.Icon),
	}
	if category.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	created, err := s.repo.Create(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryDTO, error) {
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Icon != nil {
		updates["icon"] = strings.TrimSpace(*req.Icon)
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			if db.IsUniqueViolation(err) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}
