package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleanfresh/laundry-backend/pkg/enums"
)

// LaundryOrder carries the order identity, workflow state and the derived
// money columns. Subtotal, UrgentFee, TotalPrice and Balance are owned by the
// recompute pass; AmountPaid is owned by it only for the paid/pending
// payment statuses.
type LaundryOrder struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string     `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID  uuid.UUID  `gorm:"column:customer_id;type:uuid;not null"`
	StaffID     *uuid.UUID `gorm:"column:staff_id;type:uuid"`

	IsUrgent bool `gorm:"column:is_urgent;not null;default:false"`

	Subtotal   decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null;default:0"`
	UrgentFee  decimal.Decimal `gorm:"column:urgent_fee;type:numeric(10,2);not null;default:0"`
	Discount   decimal.Decimal `gorm:"column:discount;type:numeric(10,2);not null;default:0"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null;default:0"`
	AmountPaid decimal.Decimal `gorm:"column:amount_paid;type:numeric(10,2);not null;default:0"`
	Balance    decimal.Decimal `gorm:"column:balance;type:numeric(10,2);not null;default:0"`

	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`

	SpecialInstructions string `gorm:"column:special_instructions;not null;default:''"`

	ExpectedDeliveryDate time.Time  `gorm:"column:expected_delivery_date;not null"`
	PickedUpAt           *time.Time `gorm:"column:picked_up_at"`
	DeliveredAt          *time.Time `gorm:"column:delivered_at"`

	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments []Payment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
