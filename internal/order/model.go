package order

import (
	"time"

	"market-be/internal/inventory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Cancellable statuses; anything further along keeps its stock.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusProcessing
}

type Order struct {
	ID     uint   `json:"id"`
	UserID uint   `json:"user_id"`
	Status Status `json:"status"`

	ShippingAddressID uuid.UUID `json:"shipping_address_id"`
	BillingAddressID  uuid.UUID `json:"billing_address_id"`

	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax_amount"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Discount     decimal.Decimal `json:"discount_amount"`
	Total        decimal.Decimal `json:"total_price"`

	PaymentStatus  bool       `json:"payment_status"`
	TrackingNumber *string    `json:"tracking_number,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`

	Items []Item `json:"items"`
}

// Item is an order line frozen at checkout time. Price comes from the cart
// line, never re-read from the catalog.
type Item struct {
	ID        uint            `json:"id"`
	OrderID   uint            `json:"order_id"`
	ProductID string          `json:"product_id"`
	VariantID *string         `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func (i Item) StockItem() inventory.Item {
	return inventory.Item{ProductID: i.ProductID, VariantID: i.VariantID}
}

type CheckoutInput struct {
	ShippingAddressID uuid.UUID
	BillingAddressID  uuid.UUID
	Notes             *string
}

type UpdateStatusInput struct {
	OrderID        uint
	Status         string
	TrackingNumber *string
}
