package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

const overdueGraceDays = 7

// OverduePaymentsJobParams configures the overdue flagging sweep.
type OverduePaymentsJobParams struct {
	Logger *logger.Logger
	DB     *gorm.DB
}

// NewOverduePaymentsJob constructs the job that flags delivered orders with an
// outstanding balance as overdue once the grace window has passed. The flag is
// a workflow marker only; recompute never touches amount_paid for overdue
// orders, so the debt stays visible.
func NewOverduePaymentsJob(params OverduePaymentsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db required")
	}
	return &overduePaymentsJob{
		logg: params.Logger,
		db:   params.DB,
		now:  time.Now,
	}, nil
}

type overduePaymentsJob struct {
	logg *logger.Logger
	db   *gorm.DB
	now  func() time.Time
}

func (j *overduePaymentsJob) Name() string { return "overdue-payments" }

func (j *overduePaymentsJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -overdueGraceDays)

	result := j.db.WithContext(ctx).
		Model(&models.LaundryOrder{}).
		Where("status = ?", enums.OrderStatusDelivered).
		Where("payment_status IN ?", []enums.PaymentStatus{enums.PaymentStatusPending, enums.PaymentStatusPartial}).
		Where("delivered_at IS NOT NULL AND delivered_at < ?", cutoff).
		Where("CAST(balance AS NUMERIC) > 0").
		Update("payment_status", enums.PaymentStatusOverdue)
	if result.Error != nil {
		return fmt.Errorf("flag overdue orders: %w", result.Error)
	}

	logCtx := j.logg.WithField(ctx, "flagged", result.RowsAffected)
	j.logg.Info(logCtx, "overdue payments sweep complete")
	return nil
}
