package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

const topItemsLimit = 10

// Service builds receipts and date-range sales summaries.
type Service interface {
	Receipt(ctx context.Context, orderID uuid.UUID) (*Receipt, error)
	Sales(ctx context.Context, from, to time.Time) (*SalesReport, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the reports service with the required dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Receipt(ctx context.Context, orderID uuid.UUID) (*Receipt, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, customer, err := s.repo.FindOrderWithCustomer(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	lines := make([]ReceiptLine, 0, len(order.Items))
	for _, item := range order.Items {
		typeName := ""
		if item.ClothingType != nil {
			typeName = item.ClothingType.Name
		}
		lines = append(lines, ReceiptLine{
			ClothingType: typeName,
			Description:  item.Description,
			Quantity:     item.Quantity,
			PricePerItem: item.PricePerItem,
			TotalPrice:   item.TotalPrice,
			Rewashing:    item.Rewashing,
		})
	}

	return &Receipt{
		OrderNumber:   order.OrderNumber,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		LineItems:     lines,
		Subtotal:      order.Subtotal,
		UrgentFee:     order.UrgentFee,
		Discount:      order.Discount,
		TotalPrice:    order.TotalPrice,
		AmountPaid:    order.AmountPaid,
		Balance:       order.Balance,
		PaymentStatus: order.PaymentStatus,
		RegisteredAt:  order.CreatedAt,
	}, nil
}

func (s *service) Sales(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	if from.IsZero() || to.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from and to dates required")
	}
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must be after from").
			WithDetails(map[string]string{"field": "to"})
	}

	totalOrders, err := s.repo.CountOrders(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	revenue, err := s.repo.SumRevenue(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	byStatus, err := s.repo.CountOrdersByStatus(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count by status")
	}
	topItems, err := s.repo.TopItems(ctx, from, to, topItemsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top items")
	}

	average := decimal.Zero
	if totalOrders > 0 {
		average = revenue.Div(decimal.NewFromInt(totalOrders)).Round(2)
	}

	return &SalesReport{
		From:              from,
		To:                to,
		TotalOrders:       totalOrders,
		TotalRevenue:      revenue,
		AverageOrderValue: average,
		OrdersByStatus:    byStatus,
		TopItems:          topItems,
	}, nil
}
