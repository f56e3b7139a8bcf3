package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyIsValid(t *testing.T) {
	for _, c := range []Currency{USD, EUR, GBP, CAD, AUD, JPY} {
		assert.True(t, c.IsValid(), c.String())
	}

	assert.False(t, Currency("").IsValid())
	assert.False(t, Currency("usd").IsValid(), "codes are case sensitive")
	assert.False(t, Currency("XXX").IsValid())
}

func TestDefaultCurrency(t *testing.T) {
	assert.Equal(t, USD, DefaultCurrency)
	assert.True(t, DefaultCurrency.IsValid())
}
