package order

import (
	"context"
	"database/sql"
	"errors"

	"market-be/internal/inventory"
	"market-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// CreateFromCart runs the whole checkout write as one transaction:
	// insert the order and its lines, reserve stock per line, clear the
	// cart. Any failure rolls everything back.
	CreateFromCart(ctx context.Context, o *Order) error

	GetByID(ctx context.Context, orderID uint) (*Order, error)
	List(ctx context.Context, userID uint, isAdmin bool) ([]*Order, error)

	// Cancel flips the status to cancelled and restores stock for every
	// line in one transaction. Returns ErrInvalidTransition if the order
	// is not in a cancellable state, which also makes a repeated cancel
	// a no-op for stock.
	Cancel(ctx context.Context, o *Order) error

	UpdateStatus(ctx context.Context, orderID uint, status Status, tracking *string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateFromCart(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateFromCart"),
		zap.Uint("user_id", o.UserID),
		zap.Int("item_count", len(o.Items)),
	)

	log.Debug("starting checkout transaction")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback checkout", zap.Error(rbErr))
			} else {
				log.Debug("checkout rolled back")
			}
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, status, shipping_address_id, billing_address_id,
			subtotal, tax_amount, shipping_cost, discount_amount, total_price,
			payment_status, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at
	`,
		o.UserID,
		o.Status,
		o.ShippingAddressID,
		o.BillingAddressID,
		o.Subtotal,
		o.Tax,
		o.ShippingCost,
		o.Discount,
		o.Total,
		o.PaymentStatus,
		o.Notes,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, variant_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id
		`,
			o.ID, item.ProductID, item.VariantID, item.Quantity, item.Price,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.Error(err),
			)
			return err
		}

		// The conditional decrement is the reservation. Failure here
		// aborts the transaction and releases every earlier decrement.
		if err := inventory.ReserveIn(ctx, tx, item.StockItem(), item.Quantity); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = $1
	`, o.UserID); err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit checkout", zap.Error(err))
		return err
	}

	committed = true
	log.Info("checkout committed", zap.Uint("order_id", o.ID))

	return nil
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id, status, shipping_address_id, billing_address_id,
			subtotal, tax_amount, shipping_cost, discount_amount, total_price,
			payment_status, tracking_number, notes, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.UserID, &o.Status, &o.ShippingAddressID, &o.BillingAddressID,
		&o.Subtotal, &o.Tax, &o.ShippingCost, &o.Discount, &o.Total,
		&o.PaymentStatus, &o.TrackingNumber, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, variant_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID,
			&item.VariantID, &item.Quantity, &item.Price,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) List(ctx context.Context, userID uint, isAdmin bool) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.Uint("user_id", userID),
		zap.Bool("is_admin", isAdmin),
	)

	query := `
		SELECT
			id, user_id, status, subtotal, tax_amount, shipping_cost,
			discount_amount, total_price, payment_status, tracking_number,
			created_at, updated_at
		FROM orders
	`
	args := []any{}
	if !isAdmin {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Status, &o.Subtotal, &o.Tax, &o.ShippingCost,
			&o.Discount, &o.Total, &o.PaymentStatus, &o.TrackingNumber,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("orders listed", zap.Int("count", len(orders)))
	return orders, nil
}

func (r *repository) Cancel(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Cancel"),
		zap.Uint("order_id", o.ID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback cancel", zap.Error(rbErr))
			}
		}
	}()

	// Guarded flip: losing the race to another cancel (or a shipment)
	// affects zero rows and nothing is restocked.
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status IN ($3, $4)
	`, StatusCancelled, o.ID, StatusPending, StatusProcessing)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidTransition
	}

	for _, item := range o.Items {
		if err := inventory.ReleaseIn(ctx, tx, item.StockItem(), item.Quantity); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit cancel", zap.Error(err))
		return err
	}

	committed = true
	o.Status = StatusCancelled
	log.Info("order cancelled, stock restored", zap.Int("item_count", len(o.Items)))

	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uint, status Status, tracking *string) error {
	var res sql.Result
	var err error

	if tracking != nil {
		res, err = r.db.ExecContext(ctx, `
			UPDATE orders
			SET status = $1, tracking_number = $2, updated_at = NOW()
			WHERE id = $3
		`, status, *tracking, orderID)
	} else {
		res, err = r.db.ExecContext(ctx, `
			UPDATE orders
			SET status = $1, updated_at = NOW()
			WHERE id = $2
		`, status, orderID)
	}
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
