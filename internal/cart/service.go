package cart

import (
	"context"

	"market-be/internal/inventory"
	"market-be/internal/logger"
	"market-be/internal/product"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	AddItem(ctx context.Context, params AddItemParams) (*Line, error)
	UpdateItem(ctx context.Context, params UpdateItemParams) error
	RemoveItem(ctx context.Context, userID uint, lineID string) error
	Clear(ctx context.Context, userID uint) error
	View(ctx context.Context, userID uint) (*View, error)
}

type service struct {
	repo    Repository
	catalog product.Repository
	ledger  inventory.Repository
}

func NewService(repo Repository, catalog product.Repository, ledger inventory.Repository) Service {
	return &service{repo: repo, catalog: catalog, ledger: ledger}
}

// AddItem merges into an existing line or creates a new one. Stock is only
// checked, never reserved: carts are long-lived and must not hold stock
// hostage. Reservation happens at checkout.
func (s *service) AddItem(ctx context.Context, params AddItemParams) (*Line, error) {
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Cart"),
		zap.String("method", "AddItem"),
		zap.Uint("user_id", params.UserID),
		zap.String("product_id", params.ProductID),
		zap.Int("quantity", params.Quantity),
	)

	unitPrice, err := s.resolvePrice(ctx, params.ProductID, params.VariantID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetLineByItem(ctx, params.UserID, params.ProductID, params.VariantID)
	if err != nil {
		return nil, err
	}

	finalQty := params.Quantity
	if existing != nil {
		finalQty += existing.Quantity
	}

	item := inventory.Item{ProductID: params.ProductID, VariantID: params.VariantID}
	available, err := s.ledger.Available(ctx, item)
	if err != nil {
		return nil, err
	}
	if finalQty > available {
		log.Warn("add rejected, not enough stock",
			zap.Int("requested", finalQty),
			zap.Int("available", available),
		)
		return nil, &inventory.InsufficientStockError{Item: item, Available: available}
	}

	// The write is additive, so an add racing this one merges in the
	// database instead of tripping the unique index.
	line, err := s.repo.UpsertLine(ctx, UpsertLineParams{
		UserID:    params.UserID,
		ProductID: params.ProductID,
		VariantID: params.VariantID,
		Quantity:  params.Quantity,
		UnitPrice: unitPrice,
	})
	if err != nil {
		return nil, err
	}

	log.Info("cart line written",
		zap.String("line_id", line.ID),
		zap.Int("quantity", line.Quantity),
	)
	return line, nil
}

// UpdateItem sets a line's quantity; zero or negative removes the line.
func (s *service) UpdateItem(ctx context.Context, params UpdateItemParams) error {
	line, err := s.repo.GetLineByID(ctx, params.UserID, params.LineID)
	if err != nil {
		return err
	}

	if params.Quantity <= 0 {
		return s.repo.DeleteLine(ctx, params.UserID, params.LineID)
	}

	available, err := s.ledger.Available(ctx, line.Item())
	if err != nil {
		return err
	}
	if params.Quantity > available {
		return &inventory.InsufficientStockError{Item: line.Item(), Available: available}
	}

	_, err = s.repo.SetLineQuantity(ctx, params.LineID, params.Quantity)
	return err
}

func (s *service) RemoveItem(ctx context.Context, userID uint, lineID string) error {
	return s.repo.DeleteLine(ctx, userID, lineID)
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	return s.repo.Clear(ctx, userID)
}

func (s *service) View(ctx context.Context, userID uint) (*View, error) {
	lines, err := s.repo.GetLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &View{
		Lines:      lines,
		TotalPrice: decimal.Zero,
	}
	for _, l := range lines {
		view.TotalPrice = view.TotalPrice.Add(l.Subtotal())
		view.TotalItems += l.Quantity
	}

	return view, nil
}

// resolvePrice validates the item exists and captures its current price.
func (s *service) resolvePrice(ctx context.Context, productID string, variantID *string) (decimal.Decimal, error) {
	if variantID != nil {
		variant, err := s.catalog.GetVariantByID(ctx, *variantID)
		if err != nil {
			return decimal.Zero, err
		}
		if variant.ProductID != productID {
			return decimal.Zero, ErrProductNotFound
		}
		return variant.Price, nil
	}

	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if !p.Active {
		return decimal.Zero, ErrProductNotFound
	}
	return p.Price, nil
}
