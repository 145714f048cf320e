package payments

import (
	"context"
	"testing"

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

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
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
);`
	payments := `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  amount TEXT NOT NULL,
  method TEXT NOT NULL,
  received_by TEXT,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(payments).Error)
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), testTxRunner{db: db}, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return svc
}

func seedOrder(t *testing.T, db *gorm.DB) models.LaundryOrder {
	t.Helper()
	order := models.LaundryOrder{
		ID:          uuid.New(),
		OrderNumber: "LAU-20260309-0001",
		CustomerID:  uuid.New(),
		TotalPrice:  decimal.RequireFromString("31.00"),
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestRecordPaymentAppends(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	order := seedOrder(t, db)

	first, err := svc.RecordPayment(ctx, RecordPaymentInput{
		OrderID: order.ID,
		Amount:  decimal.RequireFromString("10.00"),
		Method:  enums.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)

	_, err = svc.RecordPayment(ctx, RecordPaymentInput{
		OrderID: order.ID,
		Amount:  decimal.RequireFromString("21.00"),
		Method:  enums.PaymentMethodMobile,
		Notes:   "balance on pickup",
	})
	require.NoError(t, err)

	rows, err := svc.ListForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	total, err := svc.SumForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("31.00")), "sum %s", total)
}

func TestRecordPaymentValidation(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	order := seedOrder(t, db)

	cases := []struct {
		name  string
		input RecordPaymentInput
	}{
		{"missing order", RecordPaymentInput{Amount: decimal.RequireFromString("5.00"), Method: enums.PaymentMethodCash}},
		{"zero amount", RecordPaymentInput{OrderID: order.ID, Amount: decimal.Zero, Method: enums.PaymentMethodCash}},
		{"negative amount", RecordPaymentInput{OrderID: order.ID, Amount: decimal.RequireFromString("-5.00"), Method: enums.PaymentMethodCash}},
		{"bad method", RecordPaymentInput{OrderID: order.ID, Amount: decimal.RequireFromString("5.00"), Method: "barter"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordPayment(ctx, tc.input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestRecordPaymentUnknownOrder(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: uuid.New(),
		Amount:  decimal.RequireFromString("5.00"),
		Method:  enums.PaymentMethodCard,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSumForOrderEmpty(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newTestService(t, db)
	order := seedOrder(t, db)

	total, err := svc.SumForOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
