package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleanfresh/laundry-backend/pkg/enums"
)

// Payment is an append-only record of money received against an order.
type Payment struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Amount     decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	Method     enums.PaymentMethod `gorm:"column:method;not null"`
	ReceivedBy *uuid.UUID          `gorm:"column:received_by;type:uuid"`
	Notes      string              `gorm:"column:notes;not null;default:''"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
}
