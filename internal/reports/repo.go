package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/db/models"
)

// Repository runs the read-side queries behind receipts and reports.
type Repository interface {
	FindOrderWithCustomer(ctx context.Context, orderID uuid.UUID) (*models.LaundryOrder, *models.Customer, error)
	CountOrders(ctx context.Context, from, to time.Time) (int64, error)
	SumRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CountOrdersByStatus(ctx context.Context, from, to time.Time) (map[string]int64, error)
	TopItems(ctx context.Context, from, to time.Time, limit int) ([]TopItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindOrderWithCustomer(ctx context.Context, orderID uuid.UUID) (*models.LaundryOrder, *models.Customer, error) {
	var order models.LaundryOrder
	err := r.db.WithContext(ctx).
		Preload("Items.ClothingType").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, nil, err
	}

	var customer models.Customer
	err = r.db.WithContext(ctx).Where("id = ?", order.CustomerID).First(&customer).Error
	if err != nil {
		return nil, nil, err
	}
	return &order, &customer, nil
}

func (r *repository) CountOrders(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LaundryOrder{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *repository) SumRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).
		Model(&models.LaundryOrder{}).
		Where("created_at >= ? AND created_at < ?", from, to).
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

func (r *repository) CountOrdersByStatus(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.LaundryOrder{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row.Count
	}
	return byStatus, nil
}

func (r *repository) TopItems(ctx context.Context, from, to time.Time, limit int) ([]TopItem, error) {
	type itemRow struct {
		Name     string
		Quantity int
		Revenue  string
	}

	var rows []itemRow
	err := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN laundry_orders ON laundry_orders.id = order_items.order_id").
		Joins("JOIN clothing_types ON clothing_types.id = order_items.clothing_type_id").
		Where("laundry_orders.created_at >= ? AND laundry_orders.created_at < ?", from, to).
		Select("clothing_types.name AS name, SUM(order_items.quantity) AS quantity, CAST(COALESCE(SUM(order_items.total_price), 0) AS TEXT) AS revenue").
		Group("clothing_types.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]TopItem, 0, len(rows))
	for _, row := range rows {
		revenue, err := decimal.NewFromString(row.Revenue)
		if err != nil {
			return nil, err
		}
		items = append(items, TopItem{
			ClothingType: row.Name,
			Quantity:     row.Quantity,
			Revenue:      revenue,
		})
	}
	return items, nil
}
