package order

import (
	"context"

	"market-be/internal/address"
	"market-be/internal/cart"
	"market-be/internal/logger"
	"market-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	taxRate           = decimal.RequireFromString("0.08")
	flatShippingCost  = decimal.RequireFromString("10.00")
	freeShippingAbove = decimal.RequireFromString("50.00")
)

type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*Order, error)
	Cancel(ctx context.Context, orderID uint) (*Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	Get(ctx context.Context, orderID uint) (*Order, error)
}

type service struct {
	repo     Repository
	cartRepo cart.Repository
	addrRepo address.Repository
}

func NewService(repo Repository, cartRepo cart.Repository, addrRepo address.Repository) Service {
	return &service{repo: repo, cartRepo: cartRepo, addrRepo: addrRepo}
}

// Checkout converts the user's cart into a pending order. Pricing is
// computed from the cart lines as they are now; the stock decrement and the
// cart clear happen atomically in the repository.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotAuthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Order"),
		zap.String("method", "Checkout"),
		zap.Uint("user_id", userID),
	)

	lines, err := s.cartRepo.GetLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if _, err := s.addrRepo.GetOwned(ctx, input.ShippingAddressID, userID, address.TypeShipping); err != nil {
		log.Warn("invalid shipping address", zap.Error(err))
		return nil, ErrInvalidAddress
	}
	if _, err := s.addrRepo.GetOwned(ctx, input.BillingAddressID, userID, address.TypeBilling); err != nil {
		log.Warn("invalid billing address", zap.Error(err))
		return nil, ErrInvalidAddress
	}

	subtotal := decimal.Zero
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
		items = append(items, Item{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
		})
	}

	tax := subtotal.Mul(taxRate).Round(2)
	shipping := flatShippingCost
	if subtotal.GreaterThanOrEqual(freeShippingAbove) {
		shipping = decimal.Zero
	}
	discount := decimal.Zero
	total := subtotal.Add(tax).Add(shipping).Sub(discount)

	log.Info("checkout priced",
		zap.String("subtotal", subtotal.String()),
		zap.String("tax", tax.String()),
		zap.String("shipping", shipping.String()),
		zap.String("total", total.String()),
		zap.Int("item_count", len(items)),
	)

	o := &Order{
		UserID:            userID,
		Status:            StatusPending,
		ShippingAddressID: input.ShippingAddressID,
		BillingAddressID:  input.BillingAddressID,
		Subtotal:          subtotal,
		Tax:               tax,
		ShippingCost:      shipping,
		Discount:          discount,
		Total:             total,
		PaymentStatus:     false,
		Notes:             input.Notes,
		Items:             items,
	}

	if err := s.repo.CreateFromCart(ctx, o); err != nil {
		log.Error("checkout failed", zap.Error(err))
		return nil, err
	}

	return o, nil
}

// Cancel restores stock and marks the order cancelled. Only the owner or an
// admin may cancel, and only while the order is pending or processing.
func (s *service) Cancel(ctx context.Context, orderID uint) (*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotAuthenticated
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.UserID != userID && !utils.IsAdmin(ctx) {
		return nil, ErrForbidden
	}

	// Early out keeps the common double-cancel case away from the DB;
	// the repository re-checks under the transaction either way.
	if !o.Status.Cancellable() {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.Cancel(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

// UpdateStatus is the administrative override. Any defined status may
// overwrite any other; the cancel flow is the only path that restocks.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*Order, error) {
	if !utils.IsAdmin(ctx) {
		return nil, ErrForbidden
	}

	status := Status(input.Status)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, input.OrderID, status, input.TrackingNumber); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, input.OrderID)
}

func (s *service) List(ctx context.Context) ([]*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotAuthenticated
	}

	return s.repo.List(ctx, userID, utils.IsAdmin(ctx))
}

func (s *service) Get(ctx context.Context, orderID uint) (*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotAuthenticated
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.UserID != userID && !utils.IsAdmin(ctx) {
		return nil, ErrOrderNotFound
	}

	return o, nil
}
