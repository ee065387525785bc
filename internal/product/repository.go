package product

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetVariantByID(ctx context.Context, id string) (*Variant, error)
	List(ctx context.Context, onlyActive bool) ([]*Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	CreateVariant(ctx context.Context, input NewVariantInput) (*Variant, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, slug, description, price, stock, active, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description,
		&p.Price, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, name, price, stock
		FROM product_variants
		WHERE product_id = $1
		ORDER BY name
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Price, &v.Stock); err != nil {
			return nil, err
		}
		p.Variants = append(p.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetVariantByID(ctx context.Context, id string) (*Variant, error) {
	var v Variant
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_id, name, price, stock
		FROM product_variants
		WHERE id = $1
	`, id).Scan(&v.ID, &v.ProductID, &v.Name, &v.Price, &v.Stock)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (r *repository) List(ctx context.Context, onlyActive bool) ([]*Product, error) {
	query := `
		SELECT id, name, slug, description, price, stock, active, created_at, updated_at
		FROM products
	`
	if onlyActive {
		query += ` WHERE active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description,
			&p.Price, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}

func (r *repository) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, slug, description, price, stock, active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, name, slug, description, price, stock, active, created_at, updated_at
	`, input.Name, input.Slug, input.Description, input.Price, input.Stock).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description,
		&p.Price, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) CreateVariant(ctx context.Context, input NewVariantInput) (*Variant, error) {
	var v Variant
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO product_variants (product_id, name, price, stock)
		VALUES ($1, $2, $3, $4)
		RETURNING id, product_id, name, price, stock
	`, input.ProductID, input.Name, input.Price, input.Stock).Scan(
		&v.ID, &v.ProductID, &v.Name, &v.Price, &v.Stock,
	)
	if err != nil {
		return nil, err
	}

	return &v, nil
}
