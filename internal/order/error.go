package order

import "errors"

var (
	// -- Authentication/Authorization --
	ErrUserNotAuthenticated = errors.New("user not authenticated")
	ErrForbidden            = errors.New("forbidden")

	// -- Validation & Input --
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidStatus  = errors.New("invalid order status")

	// -- Resource State --
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("order cannot be cancelled at this stage")
)
