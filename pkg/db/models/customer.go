package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer holds identity plus the denormalized lifetime spend cache.
// TotalSpent is always a full recompute over the customer's orders, never an
// incremental patch.
type Customer struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID string          `gorm:"column:customer_id;not null;uniqueIndex"`
	Name       string          `gorm:"column:name;not null"`
	Phone      string          `gorm:"column:phone;not null"`
	Email      string          `gorm:"column:email;not null;default:''"`
	Address    string          `gorm:"column:address;not null;default:''"`
	TotalSpent decimal.Decimal `gorm:"column:total_spent;type:numeric(10,2);not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
