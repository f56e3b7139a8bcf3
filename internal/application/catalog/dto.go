package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU            string           `json:"sku" binding:"required,max=50"`
	Name           string           `json:"name" binding:"required,max=200"`
	Description    string           `json:"description"`
	UnitPrice      decimal.Decimal  `json:"unit_price" binding:"required"`
	DefaultTaxRate *decimal.Decimal `json:"default_tax_rate"`
	Unit           string           `json:"unit" binding:"max=20"`
}

// UpdateProductRequest represents a partial update to a product. Nil fields
// are left unchanged.
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,max=200"`
	Description    *string          `json:"description"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	DefaultTaxRate *decimal.Decimal `json:"default_tax_rate"`
	Unit           *string          `json:"unit" binding:"omitempty,max=20"`
	IsActive       *bool            `json:"is_active"`
}

// ProductListFilter captures query parameters for product listings
type ProductListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	SortBy   string `form:"sort_by"`
	SortDir  string `form:"sort_dir"`
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate"`
	Unit           string          `json:"unit"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateTaxRateRequest represents a request to create a tax rate
type CreateTaxRateRequest struct {
	Name      string          `json:"name" binding:"required,max=100"`
	Rate      decimal.Decimal `json:"rate" binding:"required"`
	IsDefault bool            `json:"is_default"`
}

// UpdateTaxRateRequest represents a partial update to a tax rate
type UpdateTaxRateRequest struct {
	Name *string          `json:"name" binding:"omitempty,max=100"`
	Rate *decimal.Decimal `json:"rate"`
}

// TaxRateResponse represents a tax rate in API responses
type TaxRateResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	IsDefault bool            `json:"is_default"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		UnitPrice:      p.UnitPrice,
		DefaultTaxRate: p.DefaultTaxRate,
		Unit:           p.Unit,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = *ToProductResponse(&products[i])
	}
	return responses
}

// ToTaxRateResponse converts a domain tax rate to its API representation
func ToTaxRateResponse(t *catalog.TaxRate) *TaxRateResponse {
	return &TaxRateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Rate:      t.Rate,
		IsDefault: t.IsDefault,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToTaxRateResponses converts a slice of domain tax rates
func ToTaxRateResponses(rates []catalog.TaxRate) []TaxRateResponse {
	responses := make([]TaxRateResponse, len(rates))
	for i := range rates {
		responses[i] = *ToTaxRateResponse(&rates[i])
	}
	return responses
}
