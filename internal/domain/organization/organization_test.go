package organization

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrganization(t *testing.T) {
	t.Run("creates organization with defaults", func(t *testing.T) {
		org, err := NewOrganization("Acme Consulting")
		require.NoError(t, err)

		assert.Equal(t, "Acme Consulting", org.Name)
		assert.Equal(t, "INV", org.InvoicePrefix)
		assert.Equal(t, int64(1), org.InvoiceNextNumber)
		assert.Equal(t, 30, org.DefaultPaymentTerms)
		assert.Equal(t, "USD", string(org.Currency))
		assert.True(t, org.DefaultTaxRate.IsZero())
		assert.NotEmpty(t, org.ID)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewOrganization("")
		require.Error(t, err)
	})
}

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		prefix   string
		sequence int64
		want     string
	}{
		{"INV", 1, "INV-0001"},
		{"INV", 42, "INV-0042"},
		{"INV", 9999, "INV-9999"},
		{"INV", 10000, "INV-10000"}, // width grows, never truncates
		{"INV", 123456, "INV-123456"},
		{"ACME", 7, "ACME-0007"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatInvoiceNumber(tt.prefix, tt.sequence))
		})
	}
}

func TestOrganization_SetInvoicePrefix(t *testing.T) {
	org, err := NewOrganization("Acme")
	require.NoError(t, err)
	org.InvoiceNextNumber = 17

	t.Run("changes prefix without touching the counter", func(t *testing.T) {
		require.NoError(t, org.SetInvoicePrefix("ACME"))
		assert.Equal(t, "ACME", org.InvoicePrefix)
		assert.Equal(t, int64(17), org.InvoiceNextNumber)
	})

	t.Run("rejects empty prefix", func(t *testing.T) {
		assert.Error(t, org.SetInvoicePrefix(""))
	})

	t.Run("rejects overlong prefix", func(t *testing.T) {
		assert.Error(t, org.SetInvoicePrefix("TOOLONGPREFIX"))
	})
}

func TestOrganization_SetPaymentTerms(t *testing.T) {
	org, err := NewOrganization("Acme")
	require.NoError(t, err)

	require.NoError(t, org.SetPaymentTerms(14))
	assert.Equal(t, 14, org.DefaultPaymentTerms)

	assert.Error(t, org.SetPaymentTerms(0))
	assert.Error(t, org.SetPaymentTerms(-5))
}

func TestOrganization_SetDefaultTaxRate(t *testing.T) {
	org, err := NewOrganization("Acme")
	require.NoError(t, err)

	require.NoError(t, org.SetDefaultTaxRate(decimal.NewFromFloat(8.25)))
	assert.Equal(t, "8.25", org.DefaultTaxRate.String())

	assert.Error(t, org.SetDefaultTaxRate(decimal.NewFromInt(-1)))
	assert.Error(t, org.SetDefaultTaxRate(decimal.NewFromInt(101)))
}
