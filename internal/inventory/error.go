package inventory

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrItemNotFound = errors.New("stock item not found")
	ErrResourceBusy = errors.New("stock item is busy, try again")

	// -- Constants (External Systems) --
	PgLockNotAvailable     = "55P03"
	PgSerializationFailure = "40001"
)

// InsufficientStockError reports which item could not be reserved and how
// much of it is actually available.
type InsufficientStockError struct {
	Item      Item
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available", e.Item.Key(), e.Available)
}

// translateDBError maps postgres lock and serialization failures onto
// ErrResourceBusy so callers see one retryable kind.
func translateDBError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case PgLockNotAvailable, PgSerializationFailure:
			return ErrResourceBusy
		}
	}
	return err
}
