package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
	dbtypes "github.com/kisanbazar/kisanbazar-backend/pkg/db/types"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
)

// OrderItemRequest is a single {product, quantity} checkout line.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest carries the checkout payload. Exactly one of
// pickupDetails/deliveryDetails must be present.
type CreateOrderRequest struct {
	Items           []OrderItemRequest       `json:"items" validate:"required,min=1,dive"`
	PickupDetails   *dbtypes.PickupDetails   `json:"pickupDetails"`
	DeliveryDetails *dbtypes.DeliveryDetails `json:"deliveryDetails"`
	PaymentMethod   string                   `json:"paymentMethod"`
	Notes           string                   `json:"notes" validate:"max=1000"`
}

// UpdateStatusRequest carries the requested lifecycle move.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderItemDTO is an order line with its captured unit price.
type OrderItemDTO struct {
	ProductID uuid.UUID       `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderDTO is the wire representation of an order.
type OrderDTO struct {
	ID              uuid.UUID                `json:"id"`
	ConsumerID      uuid.UUID                `json:"consumer"`
	FarmerID        uuid.UUID                `json:"farmer"`
	Items           []OrderItemDTO           `json:"items"`
	TotalAmount     decimal.Decimal          `json:"totalAmount"`
	Status          enums.OrderStatus        `json:"status"`
	PickupDetails   *dbtypes.PickupDetails   `json:"pickupDetails,omitempty"`
	DeliveryDetails *dbtypes.DeliveryDetails `json:"deliveryDetails,omitempty"`
	PaymentMethod   enums.PaymentMethod      `json:"paymentMethod"`
	Notes           string                   `json:"notes,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

// OrderList is one page of orders plus the cursor for the next one.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps a persisted order to its DTO.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		ConsumerID:      o.ConsumerID,
		FarmerID:        o.FarmerID,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		PickupDetails:   o.PickupDetails,
		DeliveryDetails: o.DeliveryDetails,
		PaymentMethod:   o.PaymentMethod,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// FromModels maps a slice of orders.
func FromModels(list []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
