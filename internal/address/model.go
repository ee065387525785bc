package address

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeShipping Type = "shipping"
	TypeBilling  Type = "billing"
)

func (t Type) Valid() bool {
	return t == TypeShipping || t == TypeBilling
}

type Address struct {
	ID     uuid.UUID `json:"id"`
	UserID uint      `json:"user_id"`
	Type   Type      `json:"address_type"`

	Name  string `json:"name"`
	Phone string `json:"phone"`

	Line1 string  `json:"address_line1"`
	Line2 *string `json:"address_line2,omitempty"`

	City    string `json:"city"`
	State   string `json:"state"`
	Postal  string `json:"postal_code"`
	Country string `json:"country"`

	IsDefault bool       `json:"is_default"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type CreateAddressInput struct {
	Type         Type
	Name         string
	Phone        string
	Line1        string
	Line2        *string
	City         string
	State        string
	Postal       string
	Country      string
	SetAsDefault bool
}

type UpdateAddressInput struct {
	AddressID    uuid.UUID
	Name         string
	Phone        string
	Line1        string
	Line2        *string
	City         string
	State        string
	Postal       string
	Country      string
	SetAsDefault bool
}
