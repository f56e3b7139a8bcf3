package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/partner"
)

// ==================== Client DTOs ====================

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	CompanyName  string `json:"company_name" binding:"omitempty,max=200"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"omitempty,max=50"`
	TaxID        string `json:"tax_id" binding:"omitempty,max=50"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Notes        string `json:"notes"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	CompanyName  *string `json:"company_name" binding:"omitempty,max=200"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	TaxID        *string `json:"tax_id" binding:"omitempty,max=50"`
	Currency     *string `json:"currency" binding:"omitempty,len=3"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`
	Notes        *string `json:"notes"`
	IsActive     *bool   `json:"is_active"`
}

// ClientListFilter represents filter options for the client list
type ClientListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CompanyName  string    `json:"company_name,omitempty"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	TaxID        string    `json:"tax_id,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	AddressLine1 string    `json:"address_line1,omitempty"`
	AddressLine2 string    `json:"address_line2,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	Country      string    `json:"country"`
	Notes        string    `json:"notes,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToClientResponse converts a domain client to the response DTO
func ToClientResponse(client *partner.Client) ClientResponse {
	return ClientResponse{
		ID:           client.ID,
		Name:         client.Name,
		CompanyName:  client.CompanyName,
		DisplayName:  client.DisplayName(),
		Email:        client.Email,
		Phone:        client.Phone,
		TaxID:        client.TaxID,
		Currency:     client.Currency.String(),
		AddressLine1: client.AddressLine1,
		AddressLine2: client.AddressLine2,
		City:         client.City,
		State:        client.State,
		PostalCode:   client.PostalCode,
		Country:      client.Country,
		Notes:        client.Notes,
		IsActive:     client.IsActive,
		CreatedAt:    client.CreatedAt,
		UpdatedAt:    client.UpdatedAt,
	}
}

// ToClientResponses converts a slice of clients to response DTOs
func ToClientResponses(clients []partner.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses
}
