package httpapi

import (
	"errors"
	"net/http"

	"market-be/internal/address"
	"market-be/internal/cart"
	"market-be/internal/inventory"
	"market-be/internal/order"
	"market-be/internal/payment"
	"market-be/internal/product"
	"market-be/internal/user"

	"github.com/gin-gonic/gin"
)

// mapErrorToStatus translates domain errors into HTTP status codes.
// Stock shortfalls, lost status races, and busy rows are all conflicts;
// anything unrecognized is a 500.
func mapErrorToStatus(err error) int {
	var insufficient *inventory.InsufficientStockError
	if errors.As(err, &insufficient) {
		return http.StatusConflict
	}

	switch {
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, inventory.ErrResourceBusy),
		errors.Is(err, payment.ErrAlreadyPaid),
		errors.Is(err, payment.ErrOrderNotPayable),
		errors.Is(err, user.ErrEmailExists):
		return http.StatusConflict

	case errors.Is(err, order.ErrForbidden),
		errors.Is(err, product.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, inventory.ErrItemNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, product.ErrVariantNotFound),
		errors.Is(err, address.ErrAddressNotFound),
		errors.Is(err, payment.ErrOrderNotFound),
		errors.Is(err, payment.ErrMethodNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidAddress),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, address.ErrInvalidType),
		errors.Is(err, payment.ErrInvalidMethod),
		errors.Is(err, payment.ErrPaymentDeclined):
		return http.StatusBadRequest

	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, cart.ErrUserNotAuthenticated),
		errors.Is(err, order.ErrUserNotAuthenticated),
		errors.Is(err, address.ErrUserNotAuthenticated),
		errors.Is(err, payment.ErrUserNotAuthenticated):
		return http.StatusUnauthorized

	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the mapped status with the error message. Stock
// errors additionally expose which item fell short and what is left.
func respondError(c *gin.Context, err error) {
	var insufficient *inventory.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     insufficient.Error(),
			"item":      insufficient.Item.Key(),
			"available": insufficient.Available,
		})
		return
	}

	status := mapErrorToStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}
