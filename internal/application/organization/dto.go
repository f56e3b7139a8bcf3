package organization

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/organization"
	"github.com/shopspring/decimal"
)

// UpdateProfileRequest represents a partial update to the organization's
// contact and address fields. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=200"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	Website      *string `json:"website" binding:"omitempty,max=200"`
	TaxID        *string `json:"tax_id" binding:"omitempty,max=50"`
	AddressLine1 *string `json:"address_line1" binding:"omitempty,max=200"`
	AddressLine2 *string `json:"address_line2" binding:"omitempty,max=200"`
	City         *string `json:"city" binding:"omitempty,max=100"`
	State        *string `json:"state" binding:"omitempty,max=100"`
	PostalCode   *string `json:"postal_code" binding:"omitempty,max=20"`
	Country      *string `json:"country" binding:"omitempty,len=2"`
}

// UpdateSettingsRequest represents a partial update to invoicing defaults
type UpdateSettingsRequest struct {
	Currency            *string          `json:"currency" binding:"omitempty,len=3"`
	InvoicePrefix       *string          `json:"invoice_prefix" binding:"omitempty,max=10"`
	DefaultTaxRate      *decimal.Decimal `json:"default_tax_rate"`
	DefaultPaymentTerms *int             `json:"default_payment_terms"`
}

// OrganizationResponse represents the organization in API responses.
// The sequence counter is internal and never exposed.
type OrganizationResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	Phone               string          `json:"phone"`
	Website             string          `json:"website"`
	TaxID               string          `json:"tax_id"`
	AddressLine1        string          `json:"address_line1"`
	AddressLine2        string          `json:"address_line2"`
	City                string          `json:"city"`
	State               string          `json:"state"`
	PostalCode          string          `json:"postal_code"`
	Country             string          `json:"country"`
	Currency            string          `json:"currency"`
	InvoicePrefix       string          `json:"invoice_prefix"`
	DefaultTaxRate      decimal.Decimal `json:"default_tax_rate"`
	DefaultPaymentTerms int             `json:"default_payment_terms"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ToOrganizationResponse converts a domain organization to its API
// representation
func ToOrganizationResponse(org *organization.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:                  org.ID,
		Name:                org.Name,
		Email:               org.Email,
		Phone:               org.Phone,
		Website:             org.Website,
		TaxID:               org.TaxID,
		AddressLine1:        org.AddressLine1,
		AddressLine2:        org.AddressLine2,
		City:                org.City,
		State:               org.State,
		PostalCode:          org.PostalCode,
		Country:             org.Country,
		Currency:            org.Currency.String(),
		InvoicePrefix:       org.InvoicePrefix,
		DefaultTaxRate:      org.DefaultTaxRate,
		DefaultPaymentTerms: org.DefaultPaymentTerms,
		CreatedAt:           org.CreatedAt,
		UpdatedAt:           org.UpdatedAt,
	}
}
