package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/kisanbazar/kisanbazar-backend/pkg/db/types"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
)

// Order is a consumer's purchase request against a single farmer. Line prices
// are captured at creation time and the total is never recomputed.
type Order struct {
	ID              uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ConsumerID      uuid.UUID                 `gorm:"column:consumer_id;type:uuid;not null;index" json:"consumer"`
	FarmerID        uuid.UUID                 `gorm:"column:farmer_id;type:uuid;not null;index" json:"farmer"`
	Items           []OrderItem               `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     decimal.Decimal           `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	Status          enums.OrderStatus         `gorm:"column:status;type:text;not null;default:pending" json:"status"`
	PickupDetails   *dbtypes.PickupDetails    `gorm:"column:pickup_details;type:jsonb" json:"pickupDetails,omitempty"`
	DeliveryDetails *dbtypes.DeliveryDetails  `gorm:"column:delivery_details;type:jsonb" json:"deliveryDetails,omitempty"`
	PaymentMethod   enums.PaymentMethod       `gorm:"column:payment_method;type:text;not null;default:cash" json:"paymentMethod"`
	Notes           string                    `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt       time.Time                 `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time                 `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is a single order line with its captured unit price.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"product"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
