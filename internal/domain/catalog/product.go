package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a reusable service or good that can be placed on
// invoice lines. It is the aggregate root for catalog operations.
type Product struct {
	shared.OrgAggregateRoot
	SKU            string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_org_sku,priority:2"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Description    string          `gorm:"type:text"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DefaultTaxRate decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"` // percent, 0-100
	Unit           string          `gorm:"type:varchar(20)"`                     // e.g. "hour", "each"
	IsActive       bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(orgID uuid.UUID, sku, name string, unitPrice decimal.Decimal) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	product := &Product{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		SKU:              strings.ToUpper(sku),
		Name:             name,
		UnitPrice:        unitPrice,
		DefaultTaxRate:   decimal.Zero,
		IsActive:         true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's descriptive fields
func (p *Product) Update(name, description, unit string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Unit = unit
	p.Touch()
	return nil
}

// SetUnitPrice updates the list price
func (p *Product) SetUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	p.UnitPrice = price
	p.Touch()
	return nil
}

// SetDefaultTaxRate updates the tax rate applied when the product is placed
// on an invoice line without an explicit rate
func (p *Product) SetDefaultTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	p.DefaultTaxRate = rate
	p.Touch()
	return nil
}

// Activate marks the product as available for new invoice lines
func (p *Product) Activate() {
	p.IsActive = true
	p.Touch()
}

// Deactivate hides the product from new invoice lines. Existing lines keep
// their copied description and price.
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
