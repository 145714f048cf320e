package queue

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
)

// Repository persists processing queue entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.QueueEntry) error
	Save(ctx context.Context, entry *models.QueueEntry) error
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*models.QueueEntry, error)
	FirstInStage(ctx context.Context, stage enums.QueueStage) (*models.QueueEntry, error)
	MaxPosition(ctx context.Context) (int, error)
	List(ctx context.Context, stage *enums.QueueStage) ([]models.QueueEntry, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a queue repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.QueueEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) Save(ctx context.Context, entry *models.QueueEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *repository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FirstInStage(ctx context.Context, stage enums.QueueStage) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := r.db.WithContext(ctx).
		Where("current_stage = ?", stage).
		Order("position ASC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) MaxPosition(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.QueueEntry{}).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *repository) List(ctx context.Context, stage *enums.QueueStage) ([]models.QueueEntry, error) {
	q := r.db.WithContext(ctx).Order("position ASC")
	if stage != nil {
		q = q.Where("current_stage = ?", *stage)
	}

	var rows []models.QueueEntry
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Delete(ctx context.Context, orderID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.QueueEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
