package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line in a user's cart with the price captured when the
// product was added.
type CartItem struct {
	ProductID uuid.UUID       `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Cart is the per-user staging area for an order. All items belong to the
// single associated farmer; the association resets when the last item goes.
type Cart struct {
	FarmerID   *uuid.UUID `json:"farmer,omitempty"`
	FarmerName string     `json:"farmerName,omitempty"`
	Items      []CartItem `json:"items"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Total sums price × quantity over the lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) findItem(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) removeItem(productID uuid.UUID) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// AddItemRequest puts a product into the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest replaces a line's quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}
