package inventory

import (
	"context"
	"database/sql"
	"errors"

	"market-be/internal/logger"

	"go.uber.org/zap"
)

// Executor is satisfied by both *sql.DB and *sql.Tx so reserve/release can
// run standalone or inside a caller's transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repository interface {
	Available(ctx context.Context, item Item) (int, error)
	Reserve(ctx context.Context, item Item, qty int) error
	Release(ctx context.Context, item Item, qty int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Available(ctx context.Context, item Item) (int, error) {
	return AvailableIn(ctx, r.db, item)
}

func (r *repository) Reserve(ctx context.Context, item Item, qty int) error {
	return ReserveIn(ctx, r.db, item, qty)
}

func (r *repository) Release(ctx context.Context, item Item, qty int) error {
	return ReleaseIn(ctx, r.db, item, qty)
}

// AvailableIn reads the current persisted stock counter. Never cached.
func AvailableIn(ctx context.Context, q Executor, item Item) (int, error) {
	var query string
	var id string

	if item.VariantID != nil {
		query = `SELECT stock FROM product_variants WHERE id = $1`
		id = *item.VariantID
	} else {
		query = `SELECT stock FROM products WHERE id = $1`
		id = item.ProductID
	}

	var stock int
	err := q.QueryRowContext(ctx, query, id).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrItemNotFound
	}
	if err != nil {
		return 0, translateDBError(err)
	}

	return stock, nil
}

// ReserveIn atomically decrements the item's stock by qty. The conditional
// UPDATE serializes concurrent reservers on the row lock; zero rows affected
// means the remaining stock cannot cover qty, and nothing was changed.
func ReserveIn(ctx context.Context, q Executor, item Item, qty int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "inventory"),
		zap.String("item", item.Key()),
		zap.Int("quantity", qty),
	)

	var query string
	var id string

	if item.VariantID != nil {
		query = `
			UPDATE product_variants
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`
		id = *item.VariantID
	} else {
		query = `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`
		id = item.ProductID
	}

	res, err := q.ExecContext(ctx, query, qty, id)
	if err != nil {
		log.Error("reserve failed", zap.Error(err))
		return translateDBError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		available, err := AvailableIn(ctx, q, item)
		if err != nil {
			return err
		}
		log.Warn("insufficient stock", zap.Int("available", available))
		return &InsufficientStockError{Item: item, Available: available}
	}

	log.Debug("stock reserved")
	return nil
}

// ReleaseIn atomically increments the item's stock by qty.
func ReleaseIn(ctx context.Context, q Executor, item Item, qty int) error {
	var query string
	var id string

	if item.VariantID != nil {
		query = `
			UPDATE product_variants
			SET stock = stock + $1, updated_at = NOW()
			WHERE id = $2
		`
		id = *item.VariantID
	} else {
		query = `
			UPDATE products
			SET stock = stock + $1, updated_at = NOW()
			WHERE id = $2
		`
		id = item.ProductID
	}

	res, err := q.ExecContext(ctx, query, qty, id)
	if err != nil {
		logger.FromCtx(ctx).Error("release failed",
			zap.String("item", item.Key()),
			zap.Error(err),
		)
		return translateDBError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}
