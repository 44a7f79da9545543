package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	discountdomain "github.com/waslahq/wasla/internal/discount/domain"
)

func TestMonthsAllowed(t *testing.T) {
	for _, months := range AllowedMonths {
		assert.True(t, MonthsAllowed(months), "months=%d", months)
	}
	for _, months := range []int{0, 2, 3, 5, 7, 11, 13, 24, -1} {
		assert.False(t, MonthsAllowed(months), "months=%d", months)
	}
}

// TestCheckoutPricingGrid pins the charged amount for every offered
// duration under the standard discount schedule.
func TestCheckoutPricingGrid(t *testing.T) {
	eleven := 11
	rules := []discountdomain.Rule{
		{Name: "Half-Year Discount", MinMonths: 6, MaxMonths: &eleven, DiscountPercentage: 10, IsActive: true},
		{Name: "Annual Discount", MinMonths: 12, DiscountPercentage: 20, IsActive: true},
	}

	cases := []struct {
		name         string
		priceCents   int64
		months       int
		wantPct      int
		wantTotal    int64
		wantOriginal int64
	}{
		{"one month full price", 1000, 1, 0, 1000, 1000},
		{"six months at ten percent", 1000, 6, 10, 5400, 6000},
		{"twelve months at twenty percent", 1000, 12, 20, 9600, 12000},
		{"odd price truncates down", 999, 6, 10, 5395, 5994},
		{"premium tier annual", 5000, 12, 20, 48000, 60000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.True(t, MonthsAllowed(tc.months))

			original := tc.priceCents * int64(tc.months)
			assert.Equal(t, tc.wantOriginal, original)

			pct := discountdomain.Evaluate(rules, tc.months)
			require.Equal(t, tc.wantPct, pct)

			total := discountdomain.ApplyDiscount(original, pct)
			assert.Equal(t, tc.wantTotal, total)
		})
	}
}
