package cart

import (
	"time"

	"market-be/internal/inventory"

	"github.com/shopspring/decimal"
)

// Line is one cart entry, keyed per user by (product, variant) so repeated
// adds merge instead of duplicating rows.
type Line struct {
	ID        string          `json:"id"`
	UserID    uint            `json:"user_id"`
	ProductID string          `json:"product_id"`
	VariantID *string         `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func (l Line) Item() inventory.Item {
	return inventory.Item{ProductID: l.ProductID, VariantID: l.VariantID}
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// View is the cart as returned to clients: lines plus derived totals.
type View struct {
	Lines      []Line          `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalItems int             `json:"total_items"`
}

type AddItemParams struct {
	UserID    uint
	ProductID string
	VariantID *string
	Quantity  int
}

type UpdateItemParams struct {
	UserID   uint
	LineID   string
	Quantity int
}

type UpsertLineParams struct {
	UserID    uint
	ProductID string
	VariantID *string
	Quantity  int
	UnitPrice decimal.Decimal
}
