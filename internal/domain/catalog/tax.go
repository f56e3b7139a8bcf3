package catalog

import (
	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TaxRate is a named, reusable tax percentage an organization can apply to
// invoice lines
type TaxRate struct {
	shared.OrgAggregateRoot
	Name      string          `gorm:"type:varchar(100);not null"`
	Rate      decimal.Decimal `gorm:"type:decimal(7,4);not null"` // percent, 0-100
	IsDefault bool            `gorm:"not null;default:false"`
	IsActive  bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TaxRate) TableName() string {
	return "tax_rates"
}

// NewTaxRate creates a new active tax rate
func NewTaxRate(orgID uuid.UUID, name string, rate decimal.Decimal) (*TaxRate, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tax rate name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Tax rate name cannot exceed 100 characters")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}

	return &TaxRate{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		Rate:             rate,
		IsActive:         true,
	}, nil
}

// Update renames the rate or changes its percentage
func (t *TaxRate) Update(name string, rate decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tax rate name cannot be empty")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}

	t.Name = name
	t.Rate = rate
	t.Touch()
	return nil
}

// MarkDefault flags this rate as the organization's default. The application
// layer clears the flag on the previous default in the same transaction.
func (t *TaxRate) MarkDefault() {
	t.IsDefault = true
	t.Touch()
}

// ClearDefault removes the default flag
func (t *TaxRate) ClearDefault() {
	t.IsDefault = false
	t.Touch()
}

// Deactivate hides the rate from new invoice lines
func (t *TaxRate) Deactivate() {
	t.IsActive = false
	t.IsDefault = false
	t.Touch()
}
