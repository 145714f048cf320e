package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/db/models"
)

// Repository persists the clothing type catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, clothingType *models.ClothingType) error
	Save(ctx context.Context, clothingType *models.ClothingType) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ClothingType, error)
	List(ctx context.Context, activeOnly bool) ([]models.ClothingType, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, clothingType *models.ClothingType) error {
	return r.db.WithContext(ctx).Create(clothingType).Error
}

func (r *repository) Save(ctx context.Context, clothingType *models.ClothingType) error {
	return r.db.WithContext(ctx).Save(clothingType).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ClothingType, error) {
	var clothingType models.ClothingType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&clothingType).Error
	if err != nil {
		return nil, err
	}
	return &clothingType, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]models.ClothingType, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var rows []models.ClothingType
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ClothingType{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("clothing_type_id = ?", id).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
