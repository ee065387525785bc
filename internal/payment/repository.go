package payment

import (
	"context"
	"database/sql"
	"errors"

	"market-be/internal/logger"
	"market-be/internal/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

// PayableOrder is the slice of an order the payment flow needs.
type PayableOrder struct {
	ID            uint
	UserID        uint
	Status        order.Status
	Total         decimal.Decimal
	PaymentStatus bool
}

type Repository interface {
	// GetPayableOrder loads the order and verifies it can accept a payment:
	// it must belong to the user, be unpaid, and still be pending.
	GetPayableOrder(ctx context.Context, orderID, userID uint) (*PayableOrder, error)

	// Finalize writes the payment row and, when approved, marks the order
	// paid and moves it to processing, all in one transaction.
	Finalize(ctx context.Context, p *Payment, approved bool) error

	GetByOrder(ctx context.Context, orderID, userID uint) (*Payment, error)

	ListMethods(ctx context.Context, userID uint) ([]*StoredMethod, error)
	GetMethod(ctx context.Context, id uuid.UUID, userID uint) (*StoredMethod, error)
	CreateMethod(ctx context.Context, userID uint, input CreateMethodInput) (*StoredMethod, error)
	DeleteMethod(ctx context.Context, id uuid.UUID, userID uint) error
	SetDefaultMethod(ctx context.Context, id uuid.UUID, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetPayableOrder(ctx context.Context, orderID, userID uint) (*PayableOrder, error) {
	var o PayableOrder
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, total_price, payment_status
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID).Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.PaymentStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if o.PaymentStatus {
		return nil, ErrAlreadyPaid
	}
	if o.Status != order.StatusPending {
		return nil, ErrOrderNotPayable
	}

	return &o, nil
}

func (r *repository) Finalize(ctx context.Context, p *Payment, approved bool) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FinalizePayment"),
		zap.Uint("order_id", p.OrderID),
		zap.Bool("approved", approved),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback payment", zap.Error(rbErr))
			}
		}
	}()

	// One payment row per order. A failed attempt may be overwritten by a
	// retry, a completed one never is; racing a completed row yields zero
	// rows and surfaces as ErrAlreadyPaid.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO payments (order_id, user_id, amount, payment_method, status, transaction_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (order_id) DO UPDATE
		SET amount = EXCLUDED.amount,
		    payment_method = EXCLUDED.payment_method,
		    status = EXCLUDED.status,
		    transaction_id = EXCLUDED.transaction_id,
		    updated_at = NOW()
		WHERE payments.status <> $7
		RETURNING id, created_at
	`,
		p.OrderID, p.UserID, p.Amount, p.Method, p.Status, p.TransactionID,
		StatusCompleted,
	).Scan(&p.ID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAlreadyPaid
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return ErrAlreadyPaid
		}
		log.Error("failed to record payment", zap.Error(err))
		return err
	}

	if approved {
		// The order was pending and unpaid when Process checked it, but the
		// processor call happens outside this transaction; a concurrent
		// cancel may have landed since. The status guard keeps an approved
		// charge from resurrecting a cancelled or already-paid order.
		res, err := tx.ExecContext(ctx, `
			UPDATE orders
			SET payment_status = TRUE, status = $1, updated_at = NOW()
			WHERE id = $2 AND status = $3 AND NOT payment_status
		`, order.StatusProcessing, p.OrderID, order.StatusPending)
		if err != nil {
			log.Error("failed to mark order paid", zap.Error(err))
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			p.Status = StatusRefunded
			if _, err := tx.ExecContext(ctx, `
				UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2
			`, StatusRefunded, p.ID); err != nil {
				log.Error("failed to mark payment refunded", zap.Error(err))
				return err
			}
			if err := tx.Commit(); err != nil {
				return err
			}
			committed = true
			log.Warn("order no longer payable, charge recorded as refunded")
			return ErrOrderNotPayable
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	committed = true
	log.Info("payment finalized", zap.String("status", string(p.Status)))

	return nil
}

func (r *repository) GetByOrder(ctx context.Context, orderID, userID uint) (*Payment, error) {
	var p Payment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, user_id, amount, payment_method, status, transaction_id, created_at, updated_at
		FROM payments
		WHERE order_id = $1 AND user_id = $2
	`, orderID, userID).Scan(
		&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.Method, &p.Status,
		&p.TransactionID, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const methodColumns = `id, user_id, payment_method, provider, last_four,
	expiry_month, expiry_year, is_default, created_at, updated_at`

func (r *repository) ListMethods(ctx context.Context, userID uint) ([]*StoredMethod, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+methodColumns+`
		FROM payment_methods
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []*StoredMethod
	for rows.Next() {
		var m StoredMethod
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Method, &m.Provider, &m.LastFour,
			&m.ExpiryMonth, &m.ExpiryYear, &m.IsDefault, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		methods = append(methods, &m)
	}

	return methods, rows.Err()
}

func (r *repository) GetMethod(ctx context.Context, id uuid.UUID, userID uint) (*StoredMethod, error) {
	var m StoredMethod
	err := r.db.QueryRowContext(ctx, `
		SELECT `+methodColumns+`
		FROM payment_methods
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&m.ID, &m.UserID, &m.Method, &m.Provider, &m.LastFour,
		&m.ExpiryMonth, &m.ExpiryYear, &m.IsDefault, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMethodNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMethod inserts the stored method; making it the default clears the
// user's other defaults in the same transaction.
func (r *repository) CreateMethod(ctx context.Context, userID uint, input CreateMethodInput) (*StoredMethod, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if input.SetAsDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE payment_methods
			SET is_default = FALSE, updated_at = NOW()
			WHERE user_id = $1 AND is_default
		`, userID); err != nil {
			return nil, err
		}
	}

	m := &StoredMethod{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO payment_methods (
			user_id, payment_method, provider, last_four,
			expiry_month, expiry_year, is_default
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+methodColumns,
		userID, input.Method, input.Provider, input.LastFour,
		input.ExpiryMonth, input.ExpiryYear, input.SetAsDefault,
	).Scan(
		&m.ID, &m.UserID, &m.Method, &m.Provider, &m.LastFour,
		&m.ExpiryMonth, &m.ExpiryYear, &m.IsDefault, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return m, nil
}

func (r *repository) DeleteMethod(ctx context.Context, id uuid.UUID, userID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM payment_methods WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMethodNotFound
	}

	return nil
}

func (r *repository) SetDefaultMethod(ctx context.Context, id uuid.UUID, userID uint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE payment_methods
		SET is_default = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMethodNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE payment_methods
		SET is_default = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND is_default AND id <> $2
	`, userID, id); err != nil {
		return err
	}

	return tx.Commit()
}
