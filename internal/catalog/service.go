package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/db"
	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the clothing type catalog. Types referenced by order items
// can be repriced or deactivated but never deleted.
type Service interface {
	CreateType(ctx context.Context, input CreateTypeInput) (*models.ClothingType, error)
	UpdateType(ctx context.Context, input UpdateTypeInput) (*models.ClothingType, error)
	DeleteType(ctx context.Context, id uuid.UUID) error
	GetType(ctx context.Context, id uuid.UUID) (*models.ClothingType, error)
	ListTypes(ctx context.Context, activeOnly bool) ([]models.ClothingType, error)
	FindType(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.ClothingType, error)
}

// CreateTypeInput carries a new catalog entry.
type CreateTypeInput struct {
	Name        string
	Price       decimal.Decimal
	UrgentPrice decimal.Decimal
	Description string
	CreatedBy   *uuid.UUID
}

// UpdateTypeInput applies partial catalog changes.
type UpdateTypeInput struct {
	ID          uuid.UUID
	Name        *string
	Price       *decimal.Decimal
	UrgentPrice *decimal.Decimal
	Description *string
	IsActive    *bool
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the catalog service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) CreateType(ctx context.Context, input CreateTypeInput) (*models.ClothingType, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required").
			WithDetails(map[string]string{"field": "name"})
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative").
			WithDetails(map[string]string{"field": "price"})
	}
	if input.UrgentPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "urgent price cannot be negative").
			WithDetails(map[string]string{"field": "urgent_price"})
	}
	if input.UrgentPrice.LessThan(input.Price) {
		s.logg.Warn(ctx, "urgent price below standard price, urgent fee will be negative")
	}

	clothingType := &models.ClothingType{
		ID:          uuid.New(),
		Name:        input.Name,
		Price:       input.Price,
		UrgentPrice: input.UrgentPrice,
		Description: input.Description,
		IsActive:    true,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.repo.Create(ctx, clothingType); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create clothing type")
	}
	return clothingType, nil
}

func (s *service) UpdateType(ctx context.Context, input UpdateTypeInput) (*models.ClothingType, error) {
	if input.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "clothing type id required")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative").
			WithDetails(map[string]string{"field": "price"})
	}
	if input.UrgentPrice != nil && input.UrgentPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "urgent price cannot be negative").
			WithDetails(map[string]string{"field": "urgent_price"})
	}

	var updated *models.ClothingType
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		clothingType, err := repo.FindByID(ctx, input.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "clothing type not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load clothing type")
		}

		if input.Name != nil {
			clothingType.Name = *input.Name
		}
		if input.Price != nil {
			clothingType.Price = *input.Price
		}
		if input.UrgentPrice != nil {
			clothingType.UrgentPrice = *input.UrgentPrice
		}
		if input.Description != nil {
			clothingType.Description = *input.Description
		}
		if input.IsActive != nil {
			clothingType.IsActive = *input.IsActive
		}

		if err := repo.Save(ctx, clothingType); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save clothing type")
		}
		updated = clothingType
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteType removes a catalog entry unless any order item still references
// it. The count check and the delete share one transaction; the FK RESTRICT
// backs it up if another writer races in between.
func (s *service) DeleteType(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "clothing type id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		references, err := repo.CountReferences(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count references")
		}
		if references > 0 {
			return pkgerrors.New(pkgerrors.CodeReferentialIntegrity, "clothing type is referenced by order items").
				WithDetails(map[string]any{"references": references})
		}

		if err := repo.Delete(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "clothing type not found")
			}
			if db.IsForeignKeyViolation(err) {
				return pkgerrors.New(pkgerrors.CodeReferentialIntegrity, "clothing type is referenced by order items")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete clothing type")
		}
		return nil
	})
}

func (s *service) GetType(ctx context.Context, id uuid.UUID) (*models.ClothingType, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "clothing type id required")
	}
	clothingType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "clothing type not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load clothing type")
	}
	return clothingType, nil
}

func (s *service) ListTypes(ctx context.Context, activeOnly bool) ([]models.ClothingType, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clothing types")
	}
	return rows, nil
}

// FindType resolves a type inside the caller's transaction. Used by the
// order service for price snapshots.
func (s *service) FindType(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.ClothingType, error) {
	return s.repo.WithTx(tx).FindByID(ctx, id)
}
