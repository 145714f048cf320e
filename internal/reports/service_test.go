package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  total_spent TEXT NOT NULL DEFAULT '0',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS clothing_types (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  urgent_price TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS laundry_orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  customer_id TEXT NOT NULL,
  staff_id TEXT,
  is_urgent INTEGER NOT NULL DEFAULT 0,
  subtotal TEXT NOT NULL DEFAULT '0',
  urgent_fee TEXT NOT NULL DEFAULT '0',
  discount TEXT NOT NULL DEFAULT '0',
  total_price TEXT NOT NULL DEFAULT '0',
  amount_paid TEXT NOT NULL DEFAULT '0',
  balance TEXT NOT NULL DEFAULT '0',
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  special_instructions TEXT NOT NULL DEFAULT '',
  expected_delivery_date DATETIME,
  picked_up_at DATETIME,
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  clothing_type_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_per_item TEXT NOT NULL,
  total_price TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  washing INTEGER NOT NULL DEFAULT 1,
  ironing INTEGER NOT NULL DEFAULT 0,
  dry_clean INTEGER NOT NULL DEFAULT 0,
  stain_removal INTEGER NOT NULL DEFAULT 0,
  rewashing INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newReportsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return svc
}

type reportsFixture struct {
	customer models.Customer
	shirt    models.ClothingType
	jeans    models.ClothingType
}

func seedReportsFixture(t *testing.T, db *gorm.DB) reportsFixture {
	t.Helper()

	customer := models.Customer{
		ID:         uuid.New(),
		CustomerID: "CUST-5678-AB",
		Name:       "Amina Yusuf",
		Phone:      "+2348015675678",
	}
	require.NoError(t, db.Create(&customer).Error)

	shirt := models.ClothingType{
		ID:          uuid.New(),
		Name:        "Shirt",
		Price:       decimal.RequireFromString("5.00"),
		UrgentPrice: decimal.RequireFromString("8.00"),
		IsActive:    true,
	}
	jeans := models.ClothingType{
		ID:          uuid.New(),
		Name:        "Jeans",
		Price:       decimal.RequireFromString("10.00"),
		UrgentPrice: decimal.RequireFromString("15.00"),
		IsActive:    true,
	}
	require.NoError(t, db.Create(&shirt).Error)
	require.NoError(t, db.Create(&jeans).Error)
	return reportsFixture{customer: customer, shirt: shirt, jeans: jeans}
}

func seedReportOrder(t *testing.T, db *gorm.DB, fx reportsFixture, number string, total string, status enums.OrderStatus, createdAt time.Time) models.LaundryOrder {
	t.Helper()

	order := models.LaundryOrder{
		ID:            uuid.New(),
		OrderNumber:   number,
		CustomerID:    fx.customer.ID,
		Subtotal:      decimal.RequireFromString(total),
		TotalPrice:    decimal.RequireFromString(total),
		Balance:       decimal.RequireFromString(total),
		Status:        status,
		PaymentStatus: enums.PaymentStatusPending,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestReceiptSnapshot(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportsService(t, db)
	fx := seedReportsFixture(t, db)
	ctx := context.Background()

	registered := time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC)
	order := models.LaundryOrder{
		ID:            uuid.New(),
		OrderNumber:   "LAU-20260309-0001",
		CustomerID:    fx.customer.ID,
		IsUrgent:      true,
		Subtotal:      decimal.RequireFromString("20.00"),
		UrgentFee:     decimal.RequireFromString("11.00"),
		Discount:      decimal.RequireFromString("1.00"),
		TotalPrice:    decimal.RequireFromString("30.00"),
		AmountPaid:    decimal.RequireFromString("10.00"),
		Balance:       decimal.RequireFromString("20.00"),
		Status:        enums.OrderStatusWashing,
		PaymentStatus: enums.PaymentStatusPartial,
		CreatedAt:     registered,
		UpdatedAt:     registered,
	}
	require.NoError(t, db.Create(&order).Error)

	items := []models.OrderItem{
		{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ClothingTypeID: fx.shirt.ID,
			Quantity:       2,
			PricePerItem:   decimal.RequireFromString("5.00"),
			TotalPrice:     decimal.RequireFromString("10.00"),
			Washing:        true,
		},
		{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ClothingTypeID: fx.jeans.ID,
			Quantity:       1,
			PricePerItem:   decimal.RequireFromString("10.00"),
			TotalPrice:     decimal.RequireFromString("10.00"),
			Washing:        true,
			Ironing:        true,
			Description:    "blue denim",
		},
	}
	for i := range items {
		require.NoError(t, db.Create(&items[i]).Error)
	}

	receipt, err := svc.Receipt(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, "LAU-20260309-0001", receipt.OrderNumber)
	assert.Equal(t, "Amina Yusuf", receipt.CustomerName)
	assert.Equal(t, "+2348015675678", receipt.CustomerPhone)
	assert.Equal(t, enums.PaymentStatusPartial, receipt.PaymentStatus)
	assert.True(t, receipt.RegisteredAt.Equal(registered))

	require.Len(t, receipt.LineItems, 2)
	names := []string{receipt.LineItems[0].ClothingType, receipt.LineItems[1].ClothingType}
	assert.Contains(t, names, "Shirt")
	assert.Contains(t, names, "Jeans")

	assert.True(t, receipt.Subtotal.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, receipt.UrgentFee.Equal(decimal.RequireFromString("11.00")))
	assert.True(t, receipt.Discount.Equal(decimal.RequireFromString("1.00")))
	assert.True(t, receipt.TotalPrice.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, receipt.Balance.Equal(decimal.RequireFromString("20.00")))
	// total = subtotal + urgent_fee - discount, balance = total - amount_paid
	assert.True(t, receipt.TotalPrice.Equal(receipt.Subtotal.Add(receipt.UrgentFee).Sub(receipt.Discount)))
	assert.True(t, receipt.Balance.Equal(receipt.TotalPrice.Sub(receipt.AmountPaid)))
}

func TestReceiptUnknownOrder(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportsService(t, db)

	_, err := svc.Receipt(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSalesReportSummarizesRange(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportsService(t, db)
	fx := seedReportsFixture(t, db)
	ctx := context.Background()

	inRange := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	first := seedReportOrder(t, db, fx, "LAU-20260309-0001", "20.00", enums.OrderStatusPending, inRange)
	second := seedReportOrder(t, db, fx, "LAU-20260309-0002", "10.00", enums.OrderStatusDelivered, inRange.Add(time.Hour))
	// Outside the window; must not count.
	seedReportOrder(t, db, fx, "LAU-20260320-0001", "99.00", enums.OrderStatusPending, inRange.AddDate(0, 0, 11))

	seedItems := []models.OrderItem{
		{ID: uuid.New(), OrderID: first.ID, ClothingTypeID: fx.shirt.ID, Quantity: 2, PricePerItem: decimal.RequireFromString("5.00"), TotalPrice: decimal.RequireFromString("10.00"), Washing: true},
		{ID: uuid.New(), OrderID: first.ID, ClothingTypeID: fx.jeans.ID, Quantity: 1, PricePerItem: decimal.RequireFromString("10.00"), TotalPrice: decimal.RequireFromString("10.00"), Washing: true},
		{ID: uuid.New(), OrderID: second.ID, ClothingTypeID: fx.shirt.ID, Quantity: 2, PricePerItem: decimal.RequireFromString("5.00"), TotalPrice: decimal.RequireFromString("10.00"), Washing: true},
	}
	for i := range seedItems {
		require.NoError(t, db.Create(&seedItems[i]).Error)
	}

	from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	report, err := svc.Sales(ctx, from, to)
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.TotalOrders)
	assert.True(t, report.TotalRevenue.Equal(decimal.RequireFromString("30.00")), "revenue %s", report.TotalRevenue)
	assert.True(t, report.AverageOrderValue.Equal(decimal.RequireFromString("15.00")), "average %s", report.AverageOrderValue)
	assert.Equal(t, int64(1), report.OrdersByStatus[string(enums.OrderStatusPending)])
	assert.Equal(t, int64(1), report.OrdersByStatus[string(enums.OrderStatusDelivered)])

	require.NotEmpty(t, report.TopItems)
	assert.Equal(t, "Shirt", report.TopItems[0].ClothingType)
	assert.Equal(t, 4, report.TopItems[0].Quantity)
	assert.True(t, report.TopItems[0].Revenue.Equal(decimal.RequireFromString("20.00")))
}

func TestSalesReportEmptyRange(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportsService(t, db)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	report, err := svc.Sales(context.Background(), from, from.AddDate(0, 0, 7))
	require.NoError(t, err)

	assert.Zero(t, report.TotalOrders)
	assert.True(t, report.TotalRevenue.IsZero())
	assert.True(t, report.AverageOrderValue.IsZero())
	assert.Empty(t, report.TopItems)
}

func TestSalesReportRejectsInvertedRange(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportsService(t, db)

	from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	_, err := svc.Sales(context.Background(), from, from)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
