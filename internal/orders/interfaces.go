package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	"github.com/cleanfresh/laundry-backend/pkg/pagination"
)

// ListFilters narrows order listings.
type ListFilters struct {
	CustomerID    *uuid.UUID
	StaffID       *uuid.UUID
	Status        *string
	PaymentStatus *string
}

// OrderList is one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []models.LaundryOrder `json:"orders"`
	NextCursor string                `json:"next_cursor,omitempty"`
}

// Repository persists orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.LaundryOrder) error
	Save(ctx context.Context, order *models.LaundryOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.LaundryOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.LaundryOrder, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.LaundryOrder, *pagination.Cursor, error)
	CreateItem(ctx context.Context, item *models.OrderItem) error
	SaveItem(ctx context.Context, item *models.OrderItem) error
	FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error)
	DeleteItem(ctx context.Context, orderID, itemID uuid.UUID) error
	FindItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
}

// CatalogReader resolves clothing types for price snapshots.
type CatalogReader interface {
	FindType(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.ClothingType, error)
}

// CustomerDirectory is the customer-side surface the pricing cascade needs:
// existence checks at order creation and the aggregate recompute that closes
// every successful mutation.
type CustomerDirectory interface {
	Exists(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (bool, error)
	RecomputeTotalSpent(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error
}
