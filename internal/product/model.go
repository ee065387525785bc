package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`

	Variants []Variant `json:"variants,omitempty"`
}

// Variant is a purchasable variation of a product with its own price and
// stock counter.
type Variant struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

type NewProductInput struct {
	Name        string
	Slug        string
	Description *string
	Price       decimal.Decimal
	Stock       int
}

type NewVariantInput struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Stock     int
}
