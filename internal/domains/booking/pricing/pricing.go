// Package pricing computes rental quotes from a daily price and an inclusive date range.
package pricing

import (
	"prestige/shared/timezone"
	"time"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// tiers are ordered by descending minimum length.
var tiers = []struct {
	minDays int
	percent int
}{
	{minDays: 30, percent: 20},
	{minDays: 14, percent: 15},
	{minDays: 7, percent: 10},
	{minDays: 3, percent: 5},
}

type Quote struct {
	Days            int
	DiscountPercent int
	BasePrice       decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalPrice      decimal.Decimal
}

// DaysCount returns the number of calendar days in [start, end], so a single day counts as 1.
func DaysCount(start, end time.Time) int {
	return int(timezone.DateOf(end).Sub(timezone.DateOf(start)).Hours()/24) + 1
}

func DiscountPercent(days int) int {
	for _, tier := range tiers {
		if days >= tier.minDays {
			return tier.percent
		}
	}

	return 0
}

// Calculate prices a rental of daily over [start, end]. Callers guarantee end >= start.
func Calculate(daily decimal.Decimal, start, end time.Time) Quote {
	days := DaysCount(start, end)
	percent := DiscountPercent(days)

	base := daily.Mul(decimal.NewFromInt(int64(days))).Round(moneyPlaces)
	discount := base.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(moneyPlaces)

	return Quote{
		Days:            days,
		DiscountPercent: percent,
		BasePrice:       base,
		DiscountAmount:  discount,
		TotalPrice:      base.Sub(discount),
	}
}
