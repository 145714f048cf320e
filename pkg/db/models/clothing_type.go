package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClothingType is a catalog entry with standard and urgent unit pricing.
// Deleting a type that is still referenced by an order item is blocked.
type ClothingType struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(8,2);not null"`
	UrgentPrice decimal.Decimal `gorm:"column:urgent_price;type:numeric(8,2);not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	CreatedBy   *uuid.UUID      `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
