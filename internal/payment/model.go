package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Method is how the buyer pays.
type Method string

const (
	MethodCreditCard   Method = "credit_card"
	MethodDebitCard    Method = "debit_card"
	MethodPayPal       Method = "paypal"
	MethodStripe       Method = "stripe"
	MethodBankTransfer Method = "bank_transfer"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPayPal, MethodStripe, MethodBankTransfer:
		return true
	}
	return false
}

// Status is the lifecycle of one payment attempt.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// Payment records one attempt to pay for an order. A unique constraint on
// order_id means an order can carry at most one payment row.
type Payment struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uint            `json:"order_id"`
	UserID        uint            `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        Method          `json:"payment_method"`
	Status        Status          `json:"status"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

// StoredMethod is a card (or account) kept on file for reuse.
type StoredMethod struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uint       `json:"user_id"`
	Method      Method     `json:"payment_method"`
	Provider    *string    `json:"provider,omitempty"`
	LastFour    *string    `json:"last_four,omitempty"`
	ExpiryMonth *int       `json:"expiry_month,omitempty"`
	ExpiryYear  *int       `json:"expiry_year,omitempty"`
	IsDefault   bool       `json:"is_default"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ProcessInput struct {
	OrderID uint
	Method  Method
	// MethodID optionally references one of the user's stored methods.
	MethodID *uuid.UUID
}

type CreateMethodInput struct {
	Method       Method
	Provider     *string
	LastFour     *string
	ExpiryMonth  *int
	ExpiryYear   *int
	SetAsDefault bool
}
