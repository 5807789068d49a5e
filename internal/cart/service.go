package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service covers the cart lifecycle between browsing and checkout.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*Cart, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*Cart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	store    Store
	products productLoader
	users    userReader
}

// NewService builds the cart service.
func NewService(store Store, products productLoader, users userReader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user reader is required")
	}
	return &service{store: store, products: products, users: users}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*Cart, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is no longer available")
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// One farmer per cart: mixing sellers is rejected until the cart is
	// cleared, so every order stays homogeneous in farmer.
	if !cart.IsEmpty() && cart.FarmerID != nil && *cart.FarmerID != product.FarmerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"cart already holds items from another farmer; clear it first")
	}

	if existing := cart.findItem(product.ID); existing != nil {
		existing.Quantity += req.Quantity
	} else {
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		cart.Items = append(cart.Items, CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     image,
			Price:     product.Price,
			Quantity:  req.Quantity,
		})
	}

	if cart.FarmerID == nil {
		farmerID := product.FarmerID
		cart.FarmerID = &farmerID
		cart.FarmerName = s.lookupFarmerName(ctx, farmerID)
	}

	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*Cart, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := cart.findItem(productID)
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}
	item.Quantity = req.Quantity

	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cart.removeItem(productID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	// Dropping the last line frees the cart for any farmer again.
	if cart.IsEmpty() {
		cart.FarmerID = nil
		cart.FarmerName = ""
	}

	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// lookupFarmerName is best-effort display metadata; a missing user record
// leaves the name blank.
func (s *service) lookupFarmerName(ctx context.Context, farmerID uuid.UUID) string {
	user, err := s.users.FindByID(ctx, farmerID)
	if err != nil || user == nil {
		return ""
	}
	return user.Name
}
