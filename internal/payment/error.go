package payment

import "errors"

var (
	ErrUserNotAuthenticated = errors.New("user not authenticated")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotPayable      = errors.New("order is not payable")
	ErrAlreadyPaid          = errors.New("order is already paid")
	ErrInvalidMethod        = errors.New("invalid payment method")
	ErrMethodNotFound       = errors.New("payment method not found")
	ErrPaymentDeclined      = errors.New("payment was declined")
)
