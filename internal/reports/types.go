package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleanfresh/laundry-backend/pkg/enums"
)

// ReceiptLine is one printable row on a receipt.
type ReceiptLine struct {
	ClothingType string          `json:"clothing_type"`
	Description  string          `json:"description,omitempty"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"price_per_item"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Rewashing    bool            `json:"rewashing"`
}

// Receipt is the read-only order snapshot handed to the rendering side.
// All money fields satisfy the order invariants at the moment of read.
type Receipt struct {
	OrderNumber   string              `json:"order_number"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	LineItems     []ReceiptLine       `json:"line_items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	UrgentFee     decimal.Decimal     `json:"urgent_fee"`
	Discount      decimal.Decimal     `json:"discount"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"`
	Balance       decimal.Decimal     `json:"balance"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	RegisteredAt  time.Time           `json:"registered_at"`
}

// TopItem aggregates one clothing type's volume over a reporting window.
type TopItem struct {
	ClothingType string          `json:"clothing_type"`
	Quantity     int             `json:"quantity"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// SalesReport summarizes a date range.
type SalesReport struct {
	From              time.Time        `json:"from"`
	To                time.Time        `json:"to"`
	TotalOrders       int64            `json:"total_orders"`
	TotalRevenue      decimal.Decimal  `json:"total_revenue"`
	AverageOrderValue decimal.Decimal  `json:"average_order_value"`
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	TopItems          []TopItem        `json:"top_items"`
}
