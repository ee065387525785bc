package address

import (
	"context"
	"database/sql"
	"errors"

	"market-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUserNotAuthenticated = errors.New("user not authenticated")
	ErrAddressNotFound      = errors.New("address not found")
	ErrInvalidType          = errors.New("invalid address type")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)

	// GetOwned loads an address only if it belongs to the user and has the
	// expected type. Checkout uses this for its address preconditions.
	GetOwned(ctx context.Context, id uuid.UUID, userID uint, typ Type) (*Address, error)

	ListByUser(ctx context.Context, userID uint) ([]*Address, error)
	Create(ctx context.Context, userID uint, input CreateAddressInput) (*Address, error)
	Update(ctx context.Context, userID uint, input UpdateAddressInput) (*Address, error)
	Delete(ctx context.Context, id uuid.UUID, userID uint) error
	SetDefault(ctx context.Context, id uuid.UUID, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const addrColumns = `id, user_id, address_type, name, phone, address_line1, address_line2,
	city, state, postal_code, country, is_default, created_at, updated_at`

func scanAddress(row *sql.Row) (*Address, error) {
	var a Address
	err := row.Scan(
		&a.ID, &a.UserID, &a.Type, &a.Name, &a.Phone, &a.Line1, &a.Line2,
		&a.City, &a.State, &a.Postal, &a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Address, error) {
	return scanAddress(r.db.QueryRowContext(ctx, `
		SELECT `+addrColumns+`
		FROM addresses
		WHERE id = $1
	`, id))
}

func (r *repository) GetOwned(ctx context.Context, id uuid.UUID, userID uint, typ Type) (*Address, error) {
	return scanAddress(r.db.QueryRowContext(ctx, `
		SELECT `+addrColumns+`
		FROM addresses
		WHERE id = $1 AND user_id = $2 AND address_type = $3
	`, id, userID, typ))
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Address, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+addrColumns+`
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []*Address
	for rows.Next() {
		var a Address
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Type, &a.Name, &a.Phone, &a.Line1, &a.Line2,
			&a.City, &a.State, &a.Postal, &a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		addresses = append(addresses, &a)
	}

	return addresses, rows.Err()
}

// Create inserts the address; when it is to be the default, the sibling
// flags are cleared in the same transaction so exactly one default per
// (user, type) is ever observable.
func (r *repository) Create(ctx context.Context, userID uint, input CreateAddressInput) (*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateAddress"),
		zap.Uint("user_id", userID),
		zap.String("type", string(input.Type)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if input.SetAsDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE addresses
			SET is_default = FALSE, updated_at = NOW()
			WHERE user_id = $1 AND address_type = $2 AND is_default
		`, userID, input.Type); err != nil {
			log.Error("failed to clear sibling defaults", zap.Error(err))
			return nil, err
		}
	}

	a := &Address{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO addresses (
			user_id, address_type, name, phone, address_line1, address_line2,
			city, state, postal_code, country, is_default
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING `+addrColumns,
		userID, input.Type, input.Name, input.Phone, input.Line1, input.Line2,
		input.City, input.State, input.Postal, input.Country, input.SetAsDefault,
	).Scan(
		&a.ID, &a.UserID, &a.Type, &a.Name, &a.Phone, &a.Line1, &a.Line2,
		&a.City, &a.State, &a.Postal, &a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert address", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("address created", zap.String("address_id", a.ID.String()))
	return a, nil
}

func (r *repository) Update(ctx context.Context, userID uint, input UpdateAddressInput) (*Address, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var typ Type
	err = tx.QueryRowContext(ctx, `
		SELECT address_type FROM addresses WHERE id = $1 AND user_id = $2
	`, input.AddressID, userID).Scan(&typ)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}

	if input.SetAsDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE addresses
			SET is_default = FALSE, updated_at = NOW()
			WHERE user_id = $1 AND address_type = $2 AND is_default AND id <> $3
		`, userID, typ, input.AddressID); err != nil {
			return nil, err
		}
	}

	a := &Address{}
	err = tx.QueryRowContext(ctx, `
		UPDATE addresses
		SET name = $1, phone = $2, address_line1 = $3, address_line2 = $4,
		    city = $5, state = $6, postal_code = $7, country = $8,
		    is_default = (is_default OR $9), updated_at = NOW()
		WHERE id = $10 AND user_id = $11
		RETURNING `+addrColumns,
		input.Name, input.Phone, input.Line1, input.Line2,
		input.City, input.State, input.Postal, input.Country,
		input.SetAsDefault, input.AddressID, userID,
	).Scan(
		&a.ID, &a.UserID, &a.Type, &a.Name, &a.Phone, &a.Line1, &a.Line2,
		&a.City, &a.State, &a.Postal, &a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return a, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID, userID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM addresses WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAddressNotFound
	}

	return nil
}

// SetDefault clears siblings and sets the new default in one transaction.
func (r *repository) SetDefault(ctx context.Context, id uuid.UUID, userID uint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var typ Type
	err = tx.QueryRowContext(ctx, `
		SELECT address_type FROM addresses WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&typ)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAddressNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE addresses
		SET is_default = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND address_type = $2 AND is_default AND id <> $3
	`, userID, typ, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE addresses
		SET is_default = TRUE, updated_at = NOW()
		WHERE id = $1
	`, id); err != nil {
		return err
	}

	return tx.Commit()
}
