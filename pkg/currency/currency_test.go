package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertAEDToUSDExact(t *testing.T) {
	got, exact := Convert(367, "AED", "USD")
	assert.True(t, exact)
	assert.InDelta(t, 100.00, got, 0.001)
}

func TestConvertUSDToAED(t *testing.T) {
	got, exact := Convert(100, "USD", "AED")
	assert.True(t, exact)
	assert.InDelta(t, 367.00, got, 0.001)
}

func TestConvertIdentity(t *testing.T) {
	got, exact := Convert(42.555, "usd", "USD")
	assert.True(t, exact)
	assert.InDelta(t, 42.56, got, 0.001, "same-currency conversion rounds to two decimals")
}

func TestConvertUnknownPairPassesThrough(t *testing.T) {
	got, exact := Convert(50, "JPY", "USD")
	assert.False(t, exact, "unknown pair reports no exact rate")
	assert.InDelta(t, 50.00, got, 0.001, "unknown pair converts 1:1, never fails")
}

func TestConvertNormalizesCase(t *testing.T) {
	got, exact := Convert(367, " aed ", "usd")
	assert.True(t, exact)
	assert.InDelta(t, 100.00, got, 0.001)
}

func TestRate(t *testing.T) {
	rate, ok := Rate("USD", "AED")
	assert.True(t, ok)
	assert.InDelta(t, 3.67, rate, 0.0001)

	rate, ok = Rate("USD", "USD")
	assert.True(t, ok)
	assert.InDelta(t, 1.0, rate, 0.0001)

	_, ok = Rate("USD", "JPY")
	assert.False(t, ok)
}
