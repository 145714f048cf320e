package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
)

// Repository answers the dashboard aggregate queries.
type Repository interface {
	OrderCounts(ctx context.Context) (total, pending int64, err error)
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	RecentOrders(ctx context.Context, limit int) ([]models.LaundryOrder, error)
	TopStaff(ctx context.Context, limit int) ([]StaffLeader, error)
	StaffOrderCounts(ctx context.Context, staffID uuid.UUID) (total, pending int64, err error)
	RecentStaffOrders(ctx context.Context, staffID uuid.UUID, limit int) ([]models.LaundryOrder, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dashboard repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) OrderCounts(ctx context.Context) (int64, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.LaundryOrder{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var pending int64
	err := r.db.WithContext(ctx).
		Model(&models.LaundryOrder{}).
		Where("status = ?", enums.OrderStatusPending).
		Count(&pending).Error
	if err != nil {
		return 0, 0, err
	}
	return total, pending, nil
}

func (r *repository) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LaundryOrder{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *repository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).
		Model(&models.LaundryOrder{}).
		Select("CAST(COALESCE(SUM(total_price), 0) AS TEXT)").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}

func (r *repository) RecentOrders(ctx context.Context, limit int) ([]models.LaundryOrder, error) {
	var rows []models.LaundryOrder
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TopStaff(ctx context.Context, limit int) ([]StaffLeader, error) {
	type staffRow struct {
		StaffID    string
		OrderCount int64
	}

	var rows []staffRow
	err := r.db.WithContext(ctx).
		Model(&models.LaundryOrder{}).
		Where("staff_id IS NOT NULL").
		Select("staff_id, COUNT(*) AS order_count").
		Group("staff_id").
		Order("order_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	leaders := make([]StaffLeader, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.StaffID)
		if err != nil {
			continue
		}
		leaders = append(leaders, StaffLeader{StaffID: id, OrderCount: row.OrderCount})
	}
	return leaders, nil
}

func (r *repository) StaffOrderCounts(ctx context.Context, staffID uuid.UUID) (int64, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.LaundryOrder{}).
		Where("staff_id = ?", staffID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}

	var pending int64
	err = r.db.WithContext(ctx).
		Model(&models.LaundryOrder{}).
		Where("staff_id = ? AND status = ?", staffID, enums.OrderStatusPending).
		Count(&pending).Error
	if err != nil {
		return 0, 0, err
	}
	return total, pending, nil
}

func (r *repository) RecentStaffOrders(ctx context.Context, staffID uuid.UUID, limit int) ([]models.LaundryOrder, error) {
	var rows []models.LaundryOrder
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
