package products

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

type productRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Product, error)
	List(ctx context.Context, input ListInput) (*ProductList, error)
}

// Service covers the public catalog reads and the owner-gated listing lifecycle.
type Service interface {
	List(ctx context.Context, input ListInput) (*ProductList, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListMine(ctx context.Context, farmerID uuid.UUID) ([]ProductDTO, error)
	Create(ctx context.Context, farmerID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	Update(ctx context.Context, actorID uuid.UUID, role enums.Role, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, role enums.Role, id uuid.UUID) error
}

type service struct {
	repo productRepository
}

// NewService builds the products service.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ProductList, error) {
	list, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return list, nil
}

// Get serves the public detail route, so inactive listings read as absent.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return FromModel(product), nil
}

func (s *service) ListMine(ctx context.Context, farmerID uuid.UUID) ([]ProductDTO, error) {
	list, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list farmer products")
	}
	return FromModels(list), nil
}

func (s *service) Create(ctx context.Context, farmerID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	if !req.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	if req.QuantityAvailable < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantityAvailable cannot be negative")
	}

	product := &models.Product{
		FarmerID:          farmerID,
		Name:              strings.TrimSpace(req.Name),
		Description:       strings.TrimSpace(req.Description),
		CategoryID:        req.CategoryID,
		Price:             req.Price,
		Unit:              strings.TrimSpace(req.Unit),
		QuantityAvailable: req.QuantityAvailable,
		Images:            req.Images,
		IsOrganic:         req.IsOrganic,
		IsFeatured:        req.IsFeatured,
		IsActive:          true,
		HarvestDate:       req.HarvestDate,
		AvailableUntil:    req.AvailableUntil,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, role enums.Role, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnership(product, actorID, role); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
		}
		product.Price = *req.Price
	}
	if req.Unit != nil {
		product.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.QuantityAvailable != nil {
		if *req.QuantityAvailable < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantityAvailable cannot be negative")
		}
		product.QuantityAvailable = *req.QuantityAvailable
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.IsOrganic != nil {
		product.IsOrganic = *req.IsOrganic
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.HarvestDate != nil {
		product.HarvestDate = req.HarvestDate
	}
	if req.AvailableUntil != nil {
		product.AvailableUntil = req.AvailableUntil
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, role enums.Role, id uuid.UUID) error {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwnership(product, actorID, role); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

// requireOwnership admits the owning farmer and admins, nobody else.
func requireOwnership(product *models.Product, actorID uuid.UUID, role enums.Role) error {
	if role == enums.RoleAdmin {
		return nil
	}
	if role == enums.RoleFarmer && product.FarmerID == actorID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not the owner of this product")
}
