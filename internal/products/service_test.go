package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
)

type stubProductRepo struct {
	byID map[uuid.UUID]*models.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *stubProductRepo) Update(_ context.Context, product *models.Product) (*models.Product, error) {
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *stubProductRepo) ListByFarmer(_ context.Context, farmerID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.byID {
		if p.FarmerID == farmerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) List(_ context.Context, _ ListInput) (*ProductList, error) {
	var dtos []ProductDTO
	for _, p := range s.byID {
		if p.IsActive {
			dtos = append(dtos, *FromModel(p))
		}
	}
	return &ProductList{Products: dtos}, nil
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s", code, typed.Code())
	}
}

func newTestService(t *testing.T) (Service, *stubProductRepo) {
	t.Helper()
	repo := newStubProductRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestProductServiceCreateValidatesPrice(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateProductRequest{
		Name:       "Potatoes",
		CategoryID: uuid.New(),
		Price:      decimal.Zero,
		Unit:       "kg",
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	dto, err := svc.Create(context.Background(), uuid.New(), CreateProductRequest{
		Name:              "  Potatoes ",
		CategoryID:        uuid.New(),
		Price:             decimal.NewFromInt(25),
		Unit:              "kg",
		QuantityAvailable: 100,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Name != "Potatoes" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if !dto.IsActive {
		t.Fatal("new listings start active")
	}
}

func TestProductServiceCreateCarriesFeaturedFlag(t *testing.T) {
	svc, _ := newTestService(t)

	dto, err := svc.Create(context.Background(), uuid.New(), CreateProductRequest{
		Name:              "Mangoes",
		CategoryID:        uuid.New(),
		Price:             decimal.NewFromInt(120),
		Unit:              "dozen",
		QuantityAvailable: 40,
		IsFeatured:        true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !dto.IsFeatured {
		t.Fatal("featured flag should survive creation")
	}
}

func TestProductServiceGetHidesInactive(t *testing.T) {
	svc, repo := newTestService(t)

	farmer := uuid.New()
	dto, err := svc.Create(context.Background(), farmer, CreateProductRequest{
		Name:       "Okra",
		CategoryID: uuid.New(),
		Price:      decimal.NewFromInt(5),
		Unit:       "kg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	repo.byID[dto.ID].IsActive = false
	_, err = svc.Get(context.Background(), dto.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	// Owner's view still returns it.
	mine, err := svc.ListMine(context.Background(), farmer)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(mine))
	}
}

func TestProductServiceOwnershipGate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := uuid.New()
	otherFarmer := uuid.New()
	admin := uuid.New()

	dto, err := svc.Create(ctx, owner, CreateProductRequest{
		Name:       "Carrots",
		CategoryID: uuid.New(),
		Price:      decimal.NewFromInt(8),
		Unit:       "kg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Baby Carrots"
	_, err = svc.Update(ctx, otherFarmer, enums.RoleFarmer, dto.ID, UpdateProductRequest{Name: &name})
	requireCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.Update(ctx, owner, enums.RoleConsumer, dto.ID, UpdateProductRequest{Name: &name})
	requireCode(t, err, pkgerrors.CodeForbidden)

	updated, err := svc.Update(ctx, owner, enums.RoleFarmer, dto.ID, UpdateProductRequest{Name: &name})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != "Baby Carrots" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}

	// Admin may mutate without owning.
	price := decimal.NewFromInt(9)
	if _, err := svc.Update(ctx, admin, enums.RoleAdmin, dto.ID, UpdateProductRequest{Price: &price}); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	requireCode(t, svc.Delete(ctx, otherFarmer, enums.RoleFarmer, dto.ID), pkgerrors.CodeForbidden)
	if err := svc.Delete(ctx, admin, enums.RoleAdmin, dto.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	requireCode(t, svc.Delete(ctx, admin, enums.RoleAdmin, dto.ID), pkgerrors.CodeNotFound)
}

func TestProductServiceUpdateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	dto, err := svc.Create(ctx, owner, CreateProductRequest{
		Name:       "Beans",
		CategoryID: uuid.New(),
		Price:      decimal.NewFromInt(12),
		Unit:       "kg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	negative := -1
	_, err = svc.Update(ctx, owner, enums.RoleFarmer, dto.ID, UpdateProductRequest{QuantityAvailable: &negative})
	requireCode(t, err, pkgerrors.CodeValidation)

	zero := decimal.Zero
	_, err = svc.Update(ctx, owner, enums.RoleFarmer, dto.ID, UpdateProductRequest{Price: &zero})
	requireCode(t, err, pkgerrors.CodeValidation)
}
