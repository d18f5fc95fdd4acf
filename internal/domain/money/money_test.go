package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ampliart/ampliart-api/internal/domain/money"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRound_HalfUp(t *testing.T) {
	assert.Equal(t, "1.01", money.Round(d("1.005")).StringFixed(2))
	assert.Equal(t, "1.00", money.Round(d("1.004")).StringFixed(2))
	assert.Equal(t, "2.50", money.Round(d("2.4999")).StringFixed(2))
}

func TestTimes_RedondeaSubtotal(t *testing.T) {
	assert.True(t, money.Times(d("3.333"), 3).Equal(d("10.00")))
	assert.True(t, money.Times(d("19.90"), 2).Equal(d("39.80")))
}

func TestPercent(t *testing.T) {
	assert.True(t, money.Percent(d("200.00"), d("10")).Equal(d("20.00")))
	assert.True(t, money.Percent(d("33.33"), d("15")).Equal(d("5.00")))
}

func TestRatio_DenominadorCero(t *testing.T) {
	assert.True(t, money.Ratio(d("10"), decimal.Zero, 2).IsZero())
	assert.True(t, money.Ratio(d("25"), d("80"), 2).Equal(d("31.25")))
}

func TestAverage(t *testing.T) {
	assert.True(t, money.Average(d("80.00"), 2).Equal(d("40.00")))
	assert.True(t, money.Average(d("100.00"), 3).Equal(d("33.33")))
	assert.True(t, money.Average(d("100.00"), 0).IsZero())
}
