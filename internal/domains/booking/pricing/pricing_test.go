package pricing_test

import (
	"prestige/internal/domains/booking/pricing"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestDaysCount(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		days  int
	}{
		{name: "same day", start: date(2025, 3, 10), end: date(2025, 3, 10), days: 1},
		{name: "one week", start: date(2025, 3, 10), end: date(2025, 3, 16), days: 7},
		{name: "across months", start: date(2025, 1, 30), end: date(2025, 2, 2), days: 4},
		{name: "across leap day", start: date(2024, 2, 28), end: date(2024, 3, 1), days: 3},
		{name: "time of day ignored", start: time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC), end: time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC), days: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.days, pricing.DaysCount(tt.start, tt.end))
		})
	}
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		days    int
		percent int
	}{
		{days: 1, percent: 0},
		{days: 2, percent: 0},
		{days: 3, percent: 5},
		{days: 6, percent: 5},
		{days: 7, percent: 10},
		{days: 13, percent: 10},
		{days: 14, percent: 15},
		{days: 29, percent: 15},
		{days: 30, percent: 20},
		{days: 90, percent: 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.percent, pricing.DiscountPercent(tt.days), "days=%d", tt.days)
	}
}

func TestDiscountPercent_NonDecreasing(t *testing.T) {
	allowed := map[int]bool{0: true, 5: true, 10: true, 15: true, 20: true}
	previous := 0

	for days := 1; days <= 120; days++ {
		percent := pricing.DiscountPercent(days)

		assert.True(t, allowed[percent], "unexpected percent %d", percent)
		assert.GreaterOrEqual(t, percent, previous, "days=%d", days)

		previous = percent
	}
}

func TestCalculate(t *testing.T) {
	quote := pricing.Calculate(decimal.RequireFromString("10000.00"), date(2025, 6, 1), date(2025, 6, 7))

	assert.Equal(t, 7, quote.Days)
	assert.Equal(t, 10, quote.DiscountPercent)
	assert.Equal(t, "70000.00", quote.BasePrice.StringFixed(2))
	assert.Equal(t, "7000.00", quote.DiscountAmount.StringFixed(2))
	assert.Equal(t, "63000.00", quote.TotalPrice.StringFixed(2))
}

func TestCalculate_RoundsToCents(t *testing.T) {
	quote := pricing.Calculate(decimal.RequireFromString("33.33"), date(2025, 6, 1), date(2025, 6, 3))

	assert.Equal(t, "99.99", quote.BasePrice.StringFixed(2))
	assert.Equal(t, "5.00", quote.DiscountAmount.StringFixed(2))
	assert.Equal(t, "94.99", quote.TotalPrice.StringFixed(2))
	assert.True(t, quote.BasePrice.Equal(quote.DiscountAmount.Add(quote.TotalPrice)))
}

func TestCalculate_NoDiscount(t *testing.T) {
	quote := pricing.Calculate(decimal.RequireFromString("250.50"), date(2025, 6, 1), date(2025, 6, 1))

	assert.Equal(t, 1, quote.Days)
	assert.Equal(t, 0, quote.DiscountPercent)
	assert.True(t, quote.DiscountAmount.IsZero())
	assert.Equal(t, "250.50", quote.TotalPrice.StringFixed(2))
}
