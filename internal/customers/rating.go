package customers

import "github.com/shopspring/decimal"

var five = decimal.NewFromInt(5)

// StarRating scores a customer against the biggest spender: round(total /
// max * 5), floored at one star for anyone who has spent at all and zero
// for customers with no spend.
func StarRating(totalSpent, maxTotal decimal.Decimal) int {
	if totalSpent.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	if maxTotal.LessThanOrEqual(decimal.Zero) {
		return 1
	}

	rating := int(totalSpent.Div(maxTotal).Mul(five).Round(0).IntPart())
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return rating
}
