package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/internal/idgen"
	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
	"github.com/cleanfresh/laundry-backend/pkg/metrics"
	"github.com/cleanfresh/laundry-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the pricing cascade: every item or order mutation runs as one
// transaction that mutates, recomputes the order totals and recomputes the
// customer aggregate before returning.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.LaundryOrder, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.LaundryOrder, error)
	ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	UpdateOrder(ctx context.Context, input UpdateOrderInput) (*models.LaundryOrder, error)
	AddItem(ctx context.Context, input AddItemInput) (*models.LaundryOrder, error)
	UpdateItem(ctx context.Context, input UpdateItemInput) (*models.LaundryOrder, error)
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.LaundryOrder, error)
}

// ItemInput describes one line item at creation time.
type ItemInput struct {
	ClothingTypeID uuid.UUID
	Quantity       int
	Description    string
	Washing        bool
	Ironing        bool
	DryClean       bool
	StainRemoval   bool
	Rewashing      bool
}

// CreateOrderInput carries everything needed to register a new order.
type CreateOrderInput struct {
	CustomerID           uuid.UUID
	StaffID              *uuid.UUID
	IsUrgent             bool
	Discount             decimal.Decimal
	PaymentStatus        enums.PaymentStatus
	ExpectedDeliveryDate time.Time
	SpecialInstructions  string
	Items                []ItemInput
}

// UpdateOrderInput applies partial changes to an existing order. AmountPaid
// only sticks for the partial and overdue payment statuses; paid and pending
// force it during recompute.
type UpdateOrderInput struct {
	OrderID              uuid.UUID
	IsUrgent             *bool
	Discount             *decimal.Decimal
	Status               *enums.OrderStatus
	PaymentStatus        *enums.PaymentStatus
	AmountPaid           *decimal.Decimal
	SpecialInstructions  *string
	ExpectedDeliveryDate *time.Time
}

// AddItemInput attaches one new line item to an existing order.
type AddItemInput struct {
	OrderID uuid.UUID
	Item    ItemInput
}

// UpdateItemInput applies partial changes to one line item. Any change
// re-snapshots the unit price from the current catalog (zero when rewashing).
type UpdateItemInput struct {
	OrderID        uuid.UUID
	ItemID         uuid.UUID
	ClothingTypeID *uuid.UUID
	Quantity       *int
	Description    *string
	Washing        *bool
	Ironing        *bool
	DryClean       *bool
	StainRemoval   *bool
	Rewashing      *bool
}

type service struct {
	repo      Repository
	tx        txRunner
	catalog   CatalogReader
	customers CustomerDirectory
	logg      *logger.Logger
	metrics   *metrics.OrderMetrics
	now       func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository, tx txRunner, catalog CatalogReader, customers CustomerDirectory, logg *logger.Logger, m *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer directory required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		catalog:   catalog,
		customers: customers,
		logg:      logg,
		metrics:   m,
		now:       time.Now,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.LaundryOrder, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required").
			WithDetails(map[string]string{"field": "customer_id"})
	}
	if input.ExpectedDeliveryDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected delivery date required").
			WithDetails(map[string]string{"field": "expected_delivery_date"})
	}
	if input.Discount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative").
			WithDetails(map[string]string{"field": "discount"})
	}
	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = enums.PaymentStatusPending
	}
	if !paymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status").
			WithDetails(map[string]string{"field": "payment_status"})
	}
	for _, item := range input.Items {
		if err := validateItemInput(item); err != nil {
			return nil, err
		}
	}

	started := s.now()
	var created *models.LaundryOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := s.customers.Exists(ctx, tx, input.CustomerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check customer")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}

		orderNumber, err := idgen.NextOrderNumber(ctx, tx, s.now())
		if err != nil {
			return err
		}

		order := &models.LaundryOrder{
			ID:                   uuid.New(),
			OrderNumber:          orderNumber,
			CustomerID:           input.CustomerID,
			StaffID:              input.StaffID,
			IsUrgent:             input.IsUrgent,
			Discount:             input.Discount,
			Status:               enums.OrderStatusPending,
			PaymentStatus:        paymentStatus,
			SpecialInstructions:  input.SpecialInstructions,
			ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		}
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for _, item := range input.Items {
			if _, err := s.buildItem(ctx, tx, order.ID, item); err != nil {
				return err
			}
		}

		// A brand-new order never recomputes implicitly; totals are derived
		// here, after the items are attached.
		if err := s.recomputeAndPersist(ctx, tx, order); err != nil {
			return err
		}

		created, err = repo.FindByID(ctx, order.ID)
		return err
	})

	s.observe("create_order", started, err)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.LaundryOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	rows, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	list := &OrderList{Orders: rows}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

func (s *service) UpdateOrder(ctx context.Context, input UpdateOrderInput) (*models.LaundryOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]string{"field": "status"})
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status").
			WithDetails(map[string]string{"field": "payment_status"})
	}
	if input.Discount != nil && input.Discount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative").
			WithDetails(map[string]string{"field": "discount"})
	}

	started := s.now()
	var updated *models.LaundryOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.lockOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}

		if input.IsUrgent != nil {
			order.IsUrgent = *input.IsUrgent
		}
		if input.Discount != nil {
			order.Discount = *input.Discount
		}
		if input.Status != nil {
			order.Status = *input.Status
		}
		if input.PaymentStatus != nil {
			order.PaymentStatus = *input.PaymentStatus
		}
		if input.AmountPaid != nil {
			order.AmountPaid = *input.AmountPaid
		}
		if input.SpecialInstructions != nil {
			order.SpecialInstructions = *input.SpecialInstructions
		}
		if input.ExpectedDeliveryDate != nil {
			order.ExpectedDeliveryDate = *input.ExpectedDeliveryDate
		}

		if err := s.recomputeAndPersist(ctx, tx, order); err != nil {
			return err
		}
		updated, err = repo.FindByID(ctx, order.ID)
		return err
	})

	s.observe("update_order", started, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.LaundryOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if err := validateItemInput(input.Item); err != nil {
		return nil, err
	}

	started := s.now()
	var updated *models.LaundryOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.lockOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if _, err := s.buildItem(ctx, tx, order.ID, input.Item); err != nil {
			return err
		}
		if err := s.recomputeAndPersist(ctx, tx, order); err != nil {
			return err
		}
		updated, err = repo.FindByID(ctx, order.ID)
		return err
	})

	s.observe("add_item", started, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) UpdateItem(ctx context.Context, input UpdateItemInput) (*models.LaundryOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if input.Quantity != nil && *input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]string{"field": "quantity"})
	}

	started := s.now()
	var updated *models.LaundryOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.lockOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}

		item, err := repo.FindItem(ctx, order.ID, input.ItemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order item")
		}

		if input.ClothingTypeID != nil {
			item.ClothingTypeID = *input.ClothingTypeID
		}
		if input.Quantity != nil {
			item.Quantity = *input.Quantity
		}
		if input.Description != nil {
			item.Description = *input.Description
		}
		if input.Washing != nil {
			item.Washing = *input.Washing
		}
		if input.Ironing != nil {
			item.Ironing = *input.Ironing
		}
		if input.DryClean != nil {
			item.DryClean = *input.DryClean
		}
		if input.StainRemoval != nil {
			item.StainRemoval = *input.StainRemoval
		}
		if input.Rewashing != nil {
			item.Rewashing = *input.Rewashing
		}

		clothingType, err := s.findCatalogType(ctx, tx, item.ClothingTypeID)
		if err != nil {
			return err
		}
		item.PricePerItem = LineItemPrice(clothingType.Price, item.Rewashing)
		item.TotalPrice = LineItemTotal(item.Quantity, item.PricePerItem)

		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order item")
		}
		if err := s.recomputeAndPersist(ctx, tx, order); err != nil {
			return err
		}
		updated, err = repo.FindByID(ctx, order.ID)
		return err
	})

	s.observe("update_item", started, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.LaundryOrder, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	started := s.now()
	var updated *models.LaundryOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.lockOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, order.ID, itemID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order item")
		}
		if err := s.recomputeAndPersist(ctx, tx, order); err != nil {
			return err
		}
		updated, err = repo.FindByID(ctx, order.ID)
		return err
	})

	s.observe("remove_item", started, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) lockOrder(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.LaundryOrder, error) {
	order, err := repo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
	}
	return order, nil
}

func (s *service) buildItem(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, input ItemInput) (*models.OrderItem, error) {
	clothingType, err := s.findCatalogType(ctx, tx, input.ClothingTypeID)
	if err != nil {
		return nil, err
	}

	price := LineItemPrice(clothingType.Price, input.Rewashing)
	item := &models.OrderItem{
		ID:             uuid.New(),
		OrderID:        orderID,
		ClothingTypeID: clothingType.ID,
		Quantity:       input.Quantity,
		Description:    input.Description,
		PricePerItem:   price,
		TotalPrice:     LineItemTotal(input.Quantity, price),
		Washing:        input.Washing,
		Ironing:        input.Ironing,
		DryClean:       input.DryClean,
		StainRemoval:   input.StainRemoval,
		Rewashing:      input.Rewashing,
	}
	if err := s.repo.WithTx(tx).CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order item")
	}
	return item, nil
}

func (s *service) findCatalogType(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.ClothingType, error) {
	clothingType, err := s.catalog.FindType(ctx, tx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "clothing type not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load clothing type")
	}
	if !clothingType.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "clothing type is not active").
			WithDetails(map[string]string{"field": "clothing_type_id"})
	}
	return clothingType, nil
}

// recomputeAndPersist re-derives the order's money columns from its current
// line items, saves the order and recomputes the customer aggregate. Runs
// inside the caller's transaction so a failure anywhere rolls the whole
// mutation back.
func (s *service) recomputeAndPersist(ctx context.Context, tx *gorm.DB, order *models.LaundryOrder) error {
	repo := s.repo.WithTx(tx)

	items, err := repo.FindItemsByOrder(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}

	totalsItems := make([]TotalsItem, 0, len(items))
	for _, item := range items {
		urgentUnit := decimal.Zero
		if item.ClothingType != nil {
			urgentUnit = item.ClothingType.UrgentPrice
		}
		totalsItems = append(totalsItems, TotalsItem{
			Quantity:        item.Quantity,
			TotalPrice:      item.TotalPrice,
			UrgentUnitPrice: urgentUnit,
		})
	}

	totals := ComputeTotals(TotalsInput{
		Items:         totalsItems,
		IsUrgent:      order.IsUrgent,
		Discount:      order.Discount,
		PaymentStatus: order.PaymentStatus,
		AmountPaid:    order.AmountPaid,
	})
	if totals.NegativeUrgentFee {
		warnCtx := s.logg.WithOrderNumber(ctx, order.OrderNumber)
		s.logg.Warn(warnCtx, "urgent fee is negative, check catalog urgent prices")
	}

	order.Subtotal = totals.Subtotal
	order.UrgentFee = totals.UrgentFee
	order.TotalPrice = totals.TotalPrice
	order.AmountPaid = totals.AmountPaid
	order.Balance = totals.Balance

	if err := repo.Save(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order")
	}

	if order.CustomerID == uuid.Nil {
		return nil
	}
	if err := s.customers.RecomputeTotalSpent(ctx, tx, order.CustomerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute customer total")
	}
	return nil
}

func (s *service) observe(operation string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	s.metrics.IncMutation(operation, outcome)
	s.metrics.ObserveRecompute(operation, s.now().Sub(started))
}

func validateItemInput(input ItemInput) error {
	if input.ClothingTypeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "clothing type id required").
			WithDetails(map[string]string{"field": "clothing_type_id"})
	}
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]string{"field": "quantity"})
	}
	return nil
}
