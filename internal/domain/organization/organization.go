package organization

import (
	"fmt"
	"time"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Organization is the tenant aggregate root. It owns clients, products and
// invoices, and carries the per-tenant invoice sequence counter.
type Organization struct {
	shared.BaseAggregateRoot
	Name                string
	Email               string
	Phone               string
	Website             string
	TaxID               string
	AddressLine1        string
	AddressLine2        string
	City                string
	State               string
	PostalCode          string
	Country             string
	Currency            valueobject.Currency
	InvoicePrefix       string
	InvoiceNextNumber   int64 // next unallocated sequence value; only ever moves forward
	DefaultTaxRate      decimal.Decimal
	DefaultPaymentTerms int // days until due when an invoice omits a due date
}

// TableName returns the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization creates a new organization with invoicing defaults
func NewOrganization(name string) (*Organization, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot exceed 200 characters")
	}

	return &Organization{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Name:                name,
		Country:             "US",
		Currency:            valueobject.DefaultCurrency,
		InvoicePrefix:       "INV",
		InvoiceNextNumber:   1,
		DefaultTaxRate:      decimal.Zero,
		DefaultPaymentTerms: 30,
	}, nil
}

// FormatInvoiceNumber renders a sequence value as an invoice number.
// Values are zero-padded to four digits; larger values keep their full width.
func (o *Organization) FormatInvoiceNumber(sequence int64) string {
	return FormatInvoiceNumber(o.InvoicePrefix, sequence)
}

// FormatInvoiceNumber renders "{prefix}-{number}" with the number zero-padded
// to at least four digits
func FormatInvoiceNumber(prefix string, sequence int64) string {
	return fmt.Sprintf("%s-%04d", prefix, sequence)
}

// SetInvoicePrefix changes the invoice number prefix. The sequence counter is
// deliberately left untouched so numbers stay unique across prefix changes.
func (o *Organization) SetInvoicePrefix(prefix string) error {
	if prefix == "" {
		return shared.NewDomainError("INVALID_PREFIX", "Invoice prefix cannot be empty")
	}
	if len(prefix) > 10 {
		return shared.NewDomainError("INVALID_PREFIX", "Invoice prefix cannot exceed 10 characters")
	}

	o.InvoicePrefix = prefix
	o.UpdatedAt = time.Now()
	return nil
}

// SetPaymentTerms sets the default number of days until invoices are due
func (o *Organization) SetPaymentTerms(days int) error {
	if days <= 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms must be a positive number of days")
	}

	o.DefaultPaymentTerms = days
	o.UpdatedAt = time.Now()
	return nil
}

// SetCurrency sets the organization default currency
func (o *Organization) SetCurrency(currency valueobject.Currency) error {
	if currency == "" {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}

	o.Currency = currency
	o.UpdatedAt = time.Now()
	return nil
}

// SetDefaultTaxRate sets the default tax rate applied to new invoice items
func (o *Organization) SetDefaultTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}

	o.DefaultTaxRate = rate
	o.UpdatedAt = time.Now()
	return nil
}

// UpdateProfile updates the organization contact and address fields
func (o *Organization) UpdateProfile(name, email, phone, website, taxID string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}

	o.Name = name
	o.Email = email
	o.Phone = phone
	o.Website = website
	o.TaxID = taxID
	o.UpdatedAt = time.Now()
	return nil
}

// SetAddress updates the organization address fields
func (o *Organization) SetAddress(line1, line2, city, state, postalCode, country string) {
	o.AddressLine1 = line1
	o.AddressLine2 = line2
	o.City = city
	o.State = state
	o.PostalCode = postalCode
	if country != "" {
		o.Country = country
	}
	o.UpdatedAt = time.Now()
}
