package cart

import (
	"context"
	"database/sql"
	"errors"

	"market-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetLineByItem(ctx context.Context, userID uint, productID string, variantID *string) (*Line, error)
	GetLineByID(ctx context.Context, userID uint, lineID string) (*Line, error)
	UpsertLine(ctx context.Context, params UpsertLineParams) (*Line, error)
	SetLineQuantity(ctx context.Context, lineID string, quantity int) (*Line, error)
	DeleteLine(ctx context.Context, userID uint, lineID string) error
	Clear(ctx context.Context, userID uint) error
	GetLines(ctx context.Context, userID uint) ([]Line, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const lineColumns = `id, user_id, product_id, variant_id, quantity, unit_price, created_at, updated_at`

func scanLine(row *sql.Row) (*Line, error) {
	var l Line
	err := row.Scan(
		&l.ID, &l.UserID, &l.ProductID, &l.VariantID,
		&l.Quantity, &l.UnitPrice, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) GetLineByItem(
	ctx context.Context,
	userID uint,
	productID string,
	variantID *string,
) (*Line, error) {

	// NULL variant needs IS NULL, an equality check would never match.
	query := `
		SELECT ` + lineColumns + `
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2 AND variant_id IS NOT DISTINCT FROM $3
	`

	line, err := scanLine(r.db.QueryRowContext(ctx, query, userID, productID, variantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return line, nil
}

func (r *repository) GetLineByID(ctx context.Context, userID uint, lineID string) (*Line, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM cart_items
		WHERE id = $1 AND user_id = $2
	`

	line, err := scanLine(r.db.QueryRowContext(ctx, query, lineID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLineNotFound
	}
	if err != nil {
		return nil, err
	}

	return line, nil
}

// UpsertLine adds the quantity onto an existing line for the same item, or
// creates the line. Two concurrent adds both land: the unique index on
// (user_id, product_id, variant_id) routes the loser into the conflict arm
// instead of a unique-violation error.
func (r *repository) UpsertLine(ctx context.Context, params UpsertLineParams) (*Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertLine"),
		zap.Uint("user_id", params.UserID),
		zap.String("product_id", params.ProductID),
	)

	query := `
		INSERT INTO cart_items (user_id, product_id, variant_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id, variant_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    updated_at = NOW()
		RETURNING ` + lineColumns

	line, err := scanLine(r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.ProductID, params.VariantID, params.Quantity, params.UnitPrice,
	))
	if err != nil {
		log.Error("failed to upsert cart line", zap.Error(err))
		return nil, err
	}

	log.Info("cart line written", zap.String("line_id", line.ID), zap.Int("quantity", line.Quantity))
	return line, nil
}

func (r *repository) SetLineQuantity(ctx context.Context, lineID string, quantity int) (*Line, error) {
	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + lineColumns

	line, err := scanLine(r.db.QueryRowContext(ctx, query, quantity, lineID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLineNotFound
	}
	if err != nil {
		return nil, err
	}

	return line, nil
}

func (r *repository) DeleteLine(ctx context.Context, userID uint, lineID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE id = $1 AND user_id = $2
	`, lineID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLineNotFound
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE user_id = $1
	`, userID)
	return err
}

func (r *repository) GetLines(ctx context.Context, userID uint) ([]Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+lineColumns+`
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.ProductID, &l.VariantID,
			&l.Quantity, &l.UnitPrice, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	return lines, rows.Err()
}
