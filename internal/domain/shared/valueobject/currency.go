package valueobject

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar (default)
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	CAD Currency = "CAD" // Canadian Dollar
	AUD Currency = "AUD" // Australian Dollar
	JPY Currency = "JPY" // Japanese Yen
)

// DefaultCurrency is the fallback when neither the request, the client nor
// the organization names a currency
const DefaultCurrency = USD

// IsValid checks if the currency is one of the supported codes
func (c Currency) IsValid() bool {
	switch c {
	case USD, EUR, GBP, CAD, AUD, JPY:
		return true
	}
	return false
}

// String returns the string representation of the currency code
func (c Currency) String() string {
	return string(c)
}

// MoneyScale is the number of decimal places monetary amounts are kept at.
// Every computed amount is rounded half-up to this scale as it is produced,
// not just at display time, so repeated recomputation cannot drift.
const MoneyScale int32 = 2
