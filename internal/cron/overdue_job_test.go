package cron

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
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

func setupOverdueTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
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
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedDeliveredOrder(t *testing.T, db *gorm.DB, number string, balance string, paymentStatus enums.PaymentStatus, deliveredAt *time.Time) models.LaundryOrder {
	t.Helper()
	order := models.LaundryOrder{
		ID:            uuid.New(),
		OrderNumber:   number,
		CustomerID:    uuid.New(),
		Balance:       decimal.RequireFromString(balance),
		Status:        enums.OrderStatusDelivered,
		PaymentStatus: paymentStatus,
		DeliveredAt:   deliveredAt,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestOverdueJobFlagsStaleUnpaidOrders(t *testing.T) {
	db := setupOverdueTestDB(t)
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	stale := now.AddDate(0, 0, -10)
	fresh := now.AddDate(0, 0, -2)
	unpaid := seedDeliveredOrder(t, db, "LAU-20260227-0001", "20.00", enums.PaymentStatusPending, &stale)
	partial := seedDeliveredOrder(t, db, "LAU-20260227-0002", "5.00", enums.PaymentStatusPartial, &stale)
	settled := seedDeliveredOrder(t, db, "LAU-20260227-0003", "0", enums.PaymentStatusPaid, &stale)
	recent := seedDeliveredOrder(t, db, "LAU-20260307-0001", "20.00", enums.PaymentStatusPending, &fresh)

	job, err := NewOverduePaymentsJob(OverduePaymentsJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		DB:     db,
	})
	require.NoError(t, err)
	job.(*overduePaymentsJob).now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	statusOf := func(id uuid.UUID) enums.PaymentStatus {
		var order models.LaundryOrder
		require.NoError(t, db.Where("id = ?", id).First(&order).Error)
		return order.PaymentStatus
	}
	assert.Equal(t, enums.PaymentStatusOverdue, statusOf(unpaid.ID))
	assert.Equal(t, enums.PaymentStatusOverdue, statusOf(partial.ID))
	assert.Equal(t, enums.PaymentStatusPaid, statusOf(settled.ID))
	assert.Equal(t, enums.PaymentStatusPending, statusOf(recent.ID))
}

func TestOverdueJobIgnoresUndelivered(t *testing.T) {
	db := setupOverdueTestDB(t)
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	order := models.LaundryOrder{
		ID:            uuid.New(),
		OrderNumber:   "LAU-20260220-0001",
		CustomerID:    uuid.New(),
		Balance:       decimal.RequireFromString("20.00"),
		Status:        enums.OrderStatusWashing,
		PaymentStatus: enums.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)

	job, err := NewOverduePaymentsJob(OverduePaymentsJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		DB:     db,
	})
	require.NoError(t, err)
	job.(*overduePaymentsJob).now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	var reloaded models.LaundryOrder
	require.NoError(t, db.Where("id = ?", order.ID).First(&reloaded).Error)
	assert.Equal(t, enums.PaymentStatusPending, reloaded.PaymentStatus)
}
