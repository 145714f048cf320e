package orders

import (
	"github.com/shopspring/decimal"

	"github.com/cleanfresh/laundry-backend/pkg/enums"
)

// TotalsItem carries the per-item values the recompute pass reads. TotalPrice
// is the locked-in line total; UrgentUnitPrice is the current catalog urgent
// price for the item's clothing type.
type TotalsItem struct {
	Quantity        int
	TotalPrice      decimal.Decimal
	UrgentUnitPrice decimal.Decimal
}

// TotalsInput is the full pricing state of one order.
type TotalsInput struct {
	Items         []TotalsItem
	IsUrgent      bool
	Discount      decimal.Decimal
	PaymentStatus enums.PaymentStatus
	AmountPaid    decimal.Decimal
}

// Totals is the derived money state. NegativeUrgentFee flags an urgent price
// below the standard price, which is accepted but worth surfacing as a
// data-entry warning.
type Totals struct {
	Subtotal          decimal.Decimal
	UrgentFee         decimal.Decimal
	TotalPrice        decimal.Decimal
	AmountPaid        decimal.Decimal
	Balance           decimal.Decimal
	NegativeUrgentFee bool
}

// ComputeTotals derives order totals from the current line items and flags.
// Pure and idempotent: same input, same output, no side effects.
//
// The urgent fee is the incremental cost of urgent pricing over standard
// pricing, not the urgent price itself. The paid and pending payment statuses
// force amount_paid to the total and to zero respectively; partial and
// overdue leave it under payment-entry control.
func ComputeTotals(in TotalsInput) Totals {
	subtotal := decimal.Zero
	for _, item := range in.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}

	urgentFee := decimal.Zero
	if in.IsUrgent {
		urgentTotal := decimal.Zero
		for _, item := range in.Items {
			qty := decimal.NewFromInt(int64(item.Quantity))
			urgentTotal = urgentTotal.Add(qty.Mul(item.UrgentUnitPrice))
		}
		urgentFee = urgentTotal.Sub(subtotal)
	}

	totalPrice := subtotal.Add(urgentFee).Sub(in.Discount)

	amountPaid := in.AmountPaid
	switch in.PaymentStatus {
	case enums.PaymentStatusPaid:
		amountPaid = totalPrice
	case enums.PaymentStatusPending:
		amountPaid = decimal.Zero
	}

	return Totals{
		Subtotal:          subtotal,
		UrgentFee:         urgentFee,
		TotalPrice:        totalPrice,
		AmountPaid:        amountPaid,
		Balance:           totalPrice.Sub(amountPaid),
		NegativeUrgentFee: urgentFee.IsNegative(),
	}
}

// LineItemPrice resolves the locked-in unit price for an item: the catalog
// standard price, or zero when the item is a rewash.
func LineItemPrice(catalogPrice decimal.Decimal, rewashing bool) decimal.Decimal {
	if rewashing {
		return decimal.Zero
	}
	return catalogPrice
}

// LineItemTotal is quantity times the locked-in unit price.
func LineItemTotal(quantity int, pricePerItem decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(pricePerItem)
}
