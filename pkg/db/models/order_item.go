package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one priced row within an order. PricePerItem is snapshotted
// from the catalog at save time (zero when rewashing) so later catalog price
// changes do not rewrite historical rows.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ClothingTypeID uuid.UUID `gorm:"column:clothing_type_id;type:uuid;not null"`

	Quantity    int    `gorm:"column:quantity;not null;default:1"`
	Description string `gorm:"column:description;not null;default:''"`

	PricePerItem decimal.Decimal `gorm:"column:price_per_item;type:numeric(10,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null"`

	Washing      bool `gorm:"column:washing;not null;default:true"`
	Ironing      bool `gorm:"column:ironing;not null;default:false"`
	DryClean     bool `gorm:"column:dry_clean;not null;default:false"`
	StainRemoval bool `gorm:"column:stain_removal;not null;default:false"`
	Rewashing    bool `gorm:"column:rewashing;not null;default:false"`

	ClothingType *ClothingType `gorm:"foreignKey:ClothingTypeID;constraint:OnDelete:RESTRICT"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
