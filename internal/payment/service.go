package payment

import (
	"context"
	"errors"

	"market-be/internal/logger"
	"market-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// Process runs one payment attempt against the order. The recorded
	// payment is returned even when the processor declines; the decline is
	// reported as ErrPaymentDeclined.
	Process(ctx context.Context, input ProcessInput) (*Payment, error)

	GetForOrder(ctx context.Context, orderID uint) (*Payment, error)

	ListMethods(ctx context.Context) ([]*StoredMethod, error)
	CreateMethod(ctx context.Context, input CreateMethodInput) (*StoredMethod, error)
	DeleteMethod(ctx context.Context, id uuid.UUID) error
	SetDefaultMethod(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      Repository
	processor Processor
}

func NewService(repo Repository, processor Processor) Service {
	return &service{repo: repo, processor: processor}
}

func (s *service) Process(ctx context.Context, input ProcessInput) (*Payment, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotAuthenticated
	}

	if !input.Method.Valid() {
		return nil, ErrInvalidMethod
	}

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Payment"),
		zap.String("method", "Process"),
		zap.Uint("user_id", userID),
		zap.Uint("order_id", input.OrderID),
	)

	// A stored-method reference must exist and belong to the payer.
	if input.MethodID != nil {
		if _, err := s.repo.GetMethod(ctx, *input.MethodID, userID); err != nil {
			return nil, err
		}
	}

	o, err := s.repo.GetPayableOrder(ctx, input.OrderID, userID)
	if err != nil {
		return nil, err
	}

	p := &Payment{
		OrderID: o.ID,
		UserID:  userID,
		Amount:  o.Total,
		Method:  input.Method,
		Status:  StatusPending,
	}

	approved, txnID, err := s.processor.Attempt(ctx, p)
	if err != nil {
		log.Error("processor error", zap.Error(err))
		return nil, err
	}

	if approved {
		p.Status = StatusCompleted
		p.TransactionID = &txnID
	} else {
		p.Status = StatusFailed
	}

	if err := s.repo.Finalize(ctx, p, approved); err != nil {
		if errors.Is(err, ErrOrderNotPayable) {
			// The order changed hands mid-charge; the payment row carries
			// the refunded outcome for the caller.
			log.Warn("order changed while charging", zap.String("payment_status", string(p.Status)))
			return p, err
		}
		return nil, err
	}

	if !approved {
		log.Warn("payment declined")
		return p, ErrPaymentDeclined
	}

	log.Info("payment completed", zap.String("payment_id", p.ID.String()))
	return p, nil
}

func (s *service) GetForOrder(ctx context.Context, orderID uint) (*Payment, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotAuthenticated
	}

	return s.repo.GetByOrder(ctx, orderID, userID)
}

func (s *service) ListMethods(ctx context.Context) ([]*StoredMethod, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotAuthenticated
	}

	return s.repo.ListMethods(ctx, userID)
}

func (s *service) CreateMethod(ctx context.Context, input CreateMethodInput) (*StoredMethod, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotAuthenticated
	}

	if !input.Method.Valid() {
		return nil, ErrInvalidMethod
	}

	return s.repo.CreateMethod(ctx, userID, input)
}

func (s *service) DeleteMethod(ctx context.Context, id uuid.UUID) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUserNotAuthenticated
	}

	return s.repo.DeleteMethod(ctx, id, userID)
}

func (s *service) SetDefaultMethod(ctx context.Context, id uuid.UUID) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUserNotAuthenticated
	}

	return s.repo.SetDefaultMethod(ctx, id, userID)
}
