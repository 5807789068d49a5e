package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
	"github.com/kisanbazar/kisanbazar-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines checkout and order lifecycle operations.
type Service interface {
	Create(ctx context.Context, consumerID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error)
	Get(ctx context.Context, actorID uuid.UUID, role enums.Role, id uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, role enums.Role, id uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error)
	ListForConsumer(ctx context.Context, consumerID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListForFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListAll(ctx context.Context, params pagination.Params) (*OrderList, error)
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Repo    Repository
	Catalog ProductCatalog
	Tx      txRunner

	// DecrementStock switches checkout from the legacy check-then-create
	// validation to an atomic guarded decrement inside the transaction.
	DecrementStock bool

	// StrictTransitions constrains the status lifecycle to
	// pending→accepted|rejected|cancelled and accepted→completed|cancelled.
	StrictTransitions bool
}

type service struct {
	repo              Repository
	catalog           ProductCatalog
	tx                txRunner
	decrementStock    bool
	strictTransitions bool
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:              params.Repo,
		catalog:           params.Catalog,
		tx:                params.Tx,
		decrementStock:    params.DecrementStock,
		strictTransitions: params.StrictTransitions,
	}, nil
}

// strictNextStatuses is the constrained lifecycle; terminal states have no entry.
var strictNextStatuses = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:  {enums.OrderStatusAccepted, enums.OrderStatusRejected, enums.OrderStatusCancelled},
	enums.OrderStatusAccepted: {enums.OrderStatusCompleted, enums.OrderStatusCancelled},
}

func (s *service) Create(ctx context.Context, consumerID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	hasPickup := req.PickupDetails != nil
	hasDelivery := req.DeliveryDetails != nil
	if hasPickup == hasDelivery {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provide exactly one of pickupDetails or deliveryDetails")
	}

	paymentMethod := enums.PaymentMethodCash
	if req.PaymentMethod != "" {
		parsed, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
		}
		paymentMethod = parsed
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalog := s.catalog.WithTx(tx)

		var farmerID uuid.UUID
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))

		for _, line := range req.Items {
			if line.Quantity <= 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be greater than zero")
			}

			product, err := catalog.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"product": line.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
			}

			if farmerID == uuid.Nil {
				farmerID = product.FarmerID
			} else if farmerID != product.FarmerID {
				return pkgerrors.New(pkgerrors.CodeValidation, "all items must belong to the same farmer")
			}

			if line.Quantity > product.QuantityAvailable {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("insufficient stock for %s", product.Name)).
					WithDetails(map[string]any{"product": product.ID, "available": product.QuantityAvailable})
			}

			if s.decrementStock {
				if err := catalog.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("insufficient stock for %s", product.Name))
					}
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
				}
			}

			// Capture the current price; later product price changes must not
			// affect this order.
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order := &models.Order{
			ConsumerID:      consumerID,
			FarmerID:        farmerID,
			Items:           items,
			TotalAmount:     total,
			Status:          enums.OrderStatusPending,
			PickupDetails:   req.PickupDetails,
			DeliveryDetails: req.DeliveryDetails,
			PaymentMethod:   paymentMethod,
			Notes:           req.Notes,
		}

		persisted, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		created = persisted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, role enums.Role, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canReadOrder(order, actorID, role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a party to this order")
	}
	return FromModel(order), nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID uuid.UUID, role enums.Role, id uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only the owning farmer or an admin may move the lifecycle.
	if role != enums.RoleAdmin && !(role == enums.RoleFarmer && order.FarmerID == actorID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the owner of this order")
	}

	if s.strictTransitions {
		if !transitionAllowed(order.Status, next) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}

	order.Status = next
	return FromModel(order), nil
}

func (s *service) ListForConsumer(ctx context.Context, consumerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListByConsumer(ctx, consumerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list consumer orders")
	}
	return list, nil
}

func (s *service) ListForFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListByFarmer(ctx, farmerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list farmer orders")
	}
	return list, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return list, nil
}

func (s *service) loadOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func canReadOrder(order *models.Order, actorID uuid.UUID, role enums.Role) bool {
	if role == enums.RoleAdmin {
		return true
	}
	return order.ConsumerID == actorID || order.FarmerID == actorID
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range strictNextStatuses[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
