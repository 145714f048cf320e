package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleanfresh/laundry-backend/pkg/enums"
)

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// Two shirts at 5.00 and one pair of jeans at 10.00.
func standardItems() []TotalsItem {
	return []TotalsItem{
		{Quantity: 2, TotalPrice: money("10.00"), UrgentUnitPrice: money("8.00")},
		{Quantity: 1, TotalPrice: money("10.00"), UrgentUnitPrice: money("15.00")},
	}
}

func TestComputeTotalsStandardPending(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Items:         standardItems(),
		PaymentStatus: enums.PaymentStatusPending,
	})

	assert.True(t, totals.Subtotal.Equal(money("20.00")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.UrgentFee.IsZero(), "urgent fee %s", totals.UrgentFee)
	assert.True(t, totals.TotalPrice.Equal(money("20.00")), "total %s", totals.TotalPrice)
	assert.True(t, totals.AmountPaid.IsZero(), "amount paid %s", totals.AmountPaid)
	assert.True(t, totals.Balance.Equal(money("20.00")), "balance %s", totals.Balance)
}

func TestComputeTotalsUrgentFeeIsIncremental(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Items:         standardItems(),
		IsUrgent:      true,
		PaymentStatus: enums.PaymentStatusPending,
	})

	// Urgent-priced total is 2*8 + 1*15 = 31.00; the fee is the increment.
	assert.True(t, totals.UrgentFee.Equal(money("11.00")), "urgent fee %s", totals.UrgentFee)
	assert.True(t, totals.TotalPrice.Equal(money("31.00")), "total %s", totals.TotalPrice)
	assert.True(t, totals.Balance.Equal(money("31.00")), "balance %s", totals.Balance)
}

func TestComputeTotalsPaidForcesFullReconciliation(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Items:         standardItems(),
		IsUrgent:      true,
		PaymentStatus: enums.PaymentStatusPaid,
		AmountPaid:    money("5.00"), // ignored, paid wins
	})

	assert.True(t, totals.AmountPaid.Equal(money("31.00")), "amount paid %s", totals.AmountPaid)
	assert.True(t, totals.Balance.IsZero(), "balance %s", totals.Balance)
}

func TestComputeTotalsPendingForcesZeroPaid(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Items:         standardItems(),
		PaymentStatus: enums.PaymentStatusPending,
		AmountPaid:    money("12.00"),
	})

	assert.True(t, totals.AmountPaid.IsZero())
	assert.True(t, totals.Balance.Equal(money("20.00")))
}

func TestComputeTotalsPartialAndOverdueLeavePaidAlone(t *testing.T) {
	for _, status := range []enums.PaymentStatus{enums.PaymentStatusPartial, enums.PaymentStatusOverdue} {
		totals := ComputeTotals(TotalsInput{
			Items:         standardItems(),
			PaymentStatus: status,
			AmountPaid:    money("7.50"),
		})
		assert.True(t, totals.AmountPaid.Equal(money("7.50")), "status %s", status)
		assert.True(t, totals.Balance.Equal(money("12.50")), "status %s", status)
	}
}

func TestComputeTotalsAfterItemRemoval(t *testing.T) {
	// The jeans line is gone; only the two shirts remain on an urgent order.
	totals := ComputeTotals(TotalsInput{
		Items: []TotalsItem{
			{Quantity: 2, TotalPrice: money("10.00"), UrgentUnitPrice: money("8.00")},
		},
		IsUrgent:      true,
		PaymentStatus: enums.PaymentStatusPending,
	})

	assert.True(t, totals.Subtotal.Equal(money("10.00")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.UrgentFee.Equal(money("6.00")), "urgent fee %s", totals.UrgentFee)
	assert.True(t, totals.TotalPrice.Equal(money("16.00")), "total %s", totals.TotalPrice)
}

func TestComputeTotalsDiscountReducesTotal(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Items:         standardItems(),
		Discount:      money("3.00"),
		PaymentStatus: enums.PaymentStatusPartial,
		AmountPaid:    money("10.00"),
	})

	assert.True(t, totals.TotalPrice.Equal(money("17.00")), "total %s", totals.TotalPrice)
	assert.True(t, totals.Balance.Equal(money("7.00")), "balance %s", totals.Balance)
}

func TestComputeTotalsIdempotent(t *testing.T) {
	in := TotalsInput{
		Items:         standardItems(),
		IsUrgent:      true,
		Discount:      money("1.00"),
		PaymentStatus: enums.PaymentStatusPartial,
		AmountPaid:    money("4.00"),
	}

	first := ComputeTotals(in)
	second := ComputeTotals(in)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.UrgentFee.Equal(second.UrgentFee))
	assert.True(t, first.TotalPrice.Equal(second.TotalPrice))
	assert.True(t, first.AmountPaid.Equal(second.AmountPaid))
	assert.True(t, first.Balance.Equal(second.Balance))
}

func TestComputeTotalsAdditivity(t *testing.T) {
	in := TotalsInput{
		Items:         standardItems(),
		IsUrgent:      true,
		Discount:      money("2.50"),
		PaymentStatus: enums.PaymentStatusPartial,
		AmountPaid:    money("9.00"),
	}
	totals := ComputeTotals(in)

	expectedTotal := totals.Subtotal.Add(totals.UrgentFee).Sub(in.Discount)
	assert.True(t, totals.TotalPrice.Equal(expectedTotal))
	assert.True(t, totals.Balance.Equal(totals.TotalPrice.Sub(totals.AmountPaid)))
}

func TestComputeTotalsFlagsNegativeUrgentFee(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Items: []TotalsItem{
			{Quantity: 1, TotalPrice: money("10.00"), UrgentUnitPrice: money("8.00")},
		},
		IsUrgent:      true,
		PaymentStatus: enums.PaymentStatusPending,
	})

	assert.True(t, totals.NegativeUrgentFee)
	assert.True(t, totals.UrgentFee.Equal(money("-2.00")))
	assert.True(t, totals.TotalPrice.Equal(money("8.00")))
}

func TestComputeTotalsEmptyOrder(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		IsUrgent:      true,
		PaymentStatus: enums.PaymentStatusPending,
	})

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.UrgentFee.IsZero())
	assert.True(t, totals.TotalPrice.IsZero())
	assert.True(t, totals.Balance.IsZero())
}

func TestLineItemPriceRewashIsFree(t *testing.T) {
	assert.True(t, LineItemPrice(money("12.00"), true).IsZero())
	assert.True(t, LineItemPrice(money("12.00"), false).Equal(money("12.00")))
	assert.True(t, LineItemTotal(5, decimal.Zero).IsZero())
}

func TestLineItemTotal(t *testing.T) {
	assert.True(t, LineItemTotal(3, money("4.50")).Equal(money("13.50")))
}
