package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service records payment events against orders. The log is append-only and
// is not reconciled into the order's amount_paid; that column is driven by
// the payment status during recompute.
type Service interface {
	RecordPayment(ctx context.Context, input RecordPaymentInput) (*models.Payment, error)
	ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
	SumForOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
}

// RecordPaymentInput captures one payment event.
type RecordPaymentInput struct {
	OrderID    uuid.UUID
	Amount     decimal.Decimal
	Method     enums.PaymentMethod
	ReceivedBy *uuid.UUID
	Notes      string
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the payments service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*models.Payment, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required").
			WithDetails(map[string]string{"field": "order_id"})
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive").
			WithDetails(map[string]string{"field": "amount"})
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method").
			WithDetails(map[string]string{"field": "method"})
	}

	var payment *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.OrderExists(ctx, input.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}

		payment = &models.Payment{
			ID:         uuid.New(),
			OrderID:    input.OrderID,
			Amount:     input.Amount,
			Method:     input.Method,
			ReceivedBy: input.ReceivedBy,
			Notes:      input.Notes,
		}
		if err := repo.Create(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *service) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	rows, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return rows, nil
}

func (s *service) SumForOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	if orderID == uuid.Nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	total, err := s.repo.SumByOrder(ctx, orderID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum payments")
	}
	return total, nil
}
