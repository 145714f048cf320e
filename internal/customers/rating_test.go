package customers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStarRating(t *testing.T) {
	cases := []struct {
		name     string
		total    string
		maxTotal string
		want     int
	}{
		{"no spend is zero stars", "0", "500", 0},
		{"top spender gets five", "500", "500", 5},
		{"midfield rounds", "250", "500", 3},
		{"low spender rounds down", "200", "500", 2},
		{"tiny spend still one star", "0.50", "500", 1},
		{"only customer with spend", "10", "10", 5},
		{"max zero but spend positive", "10", "0", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total := decimal.RequireFromString(tc.total)
			maxTotal := decimal.RequireFromString(tc.maxTotal)
			assert.Equal(t, tc.want, StarRating(total, maxTotal))
		})
	}
}
