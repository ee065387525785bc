package product

import (
	"context"
	"errors"

	"market-be/internal/logger"
	"market-be/internal/utils"

	"go.uber.org/zap"
)

var ErrForbidden = errors.New("forbidden")

type Service interface {
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	AddVariant(ctx context.Context, input NewVariantInput) (*Variant, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Product, error) {
	// Buyers only see active products; admins see everything.
	return s.repo.List(ctx, !utils.IsAdmin(ctx))
}

func (s *service) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	if !utils.IsAdmin(ctx) {
		return nil, ErrForbidden
	}

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Product"),
		zap.String("method", "Create"),
		zap.String("name", input.Name),
	)

	p, err := s.repo.Create(ctx, input)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (s *service) AddVariant(ctx context.Context, input NewVariantInput) (*Variant, error) {
	if !utils.IsAdmin(ctx) {
		return nil, ErrForbidden
	}

	if _, err := s.repo.GetByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	return s.repo.CreateVariant(ctx, input)
}
