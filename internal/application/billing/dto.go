package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// ==================== Invoice DTOs ====================

// CreateInvoiceItemInput represents a line item in the create invoice request
type CreateInvoiceItemInput struct {
	ProductID       *uuid.UUID       `json:"product_id"`
	Description     string           `json:"description" binding:"required,min=1,max=500"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal  `json:"unit_price" binding:"required"`
	TaxRate         *decimal.Decimal `json:"tax_rate"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
}

// CreateInvoiceRequest represents a request to create a draft invoice
type CreateInvoiceRequest struct {
	ClientID  uuid.UUID                `json:"client_id" binding:"required"`
	IssueDate *time.Time               `json:"issue_date"`
	DueDate   *time.Time               `json:"due_date"`
	Currency  string                   `json:"currency" binding:"omitempty,len=3"`
	Notes     string                   `json:"notes"`
	Terms     string                   `json:"terms"`
	Footer    string                   `json:"footer"`
	Items     []CreateInvoiceItemInput `json:"items"`
}

// UpdateInvoiceRequest represents a header update on a draft invoice
type UpdateInvoiceRequest struct {
	ClientID  *uuid.UUID `json:"client_id"`
	IssueDate *time.Time `json:"issue_date"`
	DueDate   *time.Time `json:"due_date"`
	Notes     *string    `json:"notes"`
	Terms     *string    `json:"terms"`
	Footer    *string    `json:"footer"`
}

// AddInvoiceItemRequest represents a request to add a line item
type AddInvoiceItemRequest struct {
	ProductID       *uuid.UUID       `json:"product_id"`
	Description     string           `json:"description" binding:"required,min=1,max=500"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal  `json:"unit_price" binding:"required"`
	TaxRate         *decimal.Decimal `json:"tax_rate"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
}

// UpdateInvoiceItemRequest represents a partial update of a line item
type UpdateInvoiceItemRequest struct {
	Description     *string          `json:"description"`
	Quantity        *decimal.Decimal `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	TaxRate         *decimal.Decimal `json:"tax_rate"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
}

// MarkPaidRequest represents a request to record payment
type MarkPaidRequest struct {
	AmountPaid *decimal.Decimal `json:"amount_paid"`
	PaidAt     *time.Time       `json:"paid_at"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Search    string                 `form:"search"`
	ClientID  *uuid.UUID             `form:"client_id"`
	Status    *billing.InvoiceStatus `form:"status"`
	StartDate *time.Time             `form:"start_date"`
	EndDate   *time.Time             `form:"end_date"`
	Page      int                    `form:"page" binding:"omitempty,min=1"`
	PageSize  int                    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string                 `form:"order_by"`
	OrderDir  string                 `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceItemResponse represents a line item in API responses
type InvoiceItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       *uuid.UUID      `json:"product_id,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Subtotal        decimal.Decimal `json:"subtotal"` // gross minus discount
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
	SortOrder       int             `json:"sort_order"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	OrganizationID uuid.UUID             `json:"organization_id"`
	ClientID       uuid.UUID             `json:"client_id"`
	ClientName     string                `json:"client_name,omitempty"`
	InvoiceNumber  string                `json:"invoice_number"`
	Status         string                `json:"status"`
	IssueDate      time.Time             `json:"issue_date"`
	DueDate        time.Time             `json:"due_date"`
	Currency       string                `json:"currency"`
	Items          []InvoiceItemResponse `json:"items"`
	ItemCount      int                   `json:"item_count"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountTotal  decimal.Decimal       `json:"discount_total"`
	TaxTotal       decimal.Decimal       `json:"tax_total"`
	Total          decimal.Decimal       `json:"total"`
	AmountPaid     decimal.Decimal       `json:"amount_paid"`
	BalanceDue     decimal.Decimal       `json:"balance_due"`
	Notes          string                `json:"notes,omitempty"`
	Terms          string                `json:"terms,omitempty"`
	Footer         string                `json:"footer,omitempty"`
	SentAt         *time.Time            `json:"sent_at,omitempty"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	CancelledAt    *time.Time            `json:"cancelled_at,omitempty"`
	Version        int                   `json:"version"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// InvoiceListItemResponse represents an invoice in list responses
type InvoiceListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ClientID      uuid.UUID       `json:"client_id"`
	ClientName    string          `json:"client_name,omitempty"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        string          `json:"status"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	Currency      string          `json:"currency"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReconcileOverdueResponse reports the outcome of an overdue reconciliation
// pass
type ReconcileOverdueResponse struct {
	Checked int      `json:"checked"`
	Flipped int      `json:"flipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ToInvoiceItemResponse converts a domain item to the response DTO
func ToInvoiceItemResponse(item *billing.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ID:              item.ID,
		ProductID:       item.ProductID,
		Description:     item.Description,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
		TaxRate:         item.TaxRate,
		DiscountPercent: item.DiscountPercent,
		Subtotal:        item.Taxable(),
		DiscountAmount:  item.DiscountAmount(),
		TaxAmount:       item.TaxAmount(),
		Total:           item.Total(),
		SortOrder:       item.SortOrder,
	}
}

// ToInvoiceResponse converts a domain invoice to the response DTO
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i := range inv.Items {
		items[i] = ToInvoiceItemResponse(&inv.Items[i])
	}

	return InvoiceResponse{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		ClientID:       inv.ClientID,
		InvoiceNumber:  inv.InvoiceNumber,
		Status:         inv.Status.String(),
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		Currency:       inv.Currency.String(),
		Items:          items,
		ItemCount:      len(items),
		Subtotal:       inv.Subtotal,
		DiscountTotal:  inv.DiscountTotal,
		TaxTotal:       inv.TaxTotal,
		Total:          inv.Total,
		AmountPaid:     inv.AmountPaid,
		BalanceDue:     inv.BalanceDue(),
		Notes:          inv.Notes,
		Terms:          inv.Terms,
		Footer:         inv.Footer,
		SentAt:         inv.SentAt,
		PaidAt:         inv.PaidAt,
		CancelledAt:    inv.CancelledAt,
		Version:        inv.Version,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// ToInvoiceListItemResponse converts a domain invoice to the list item DTO
func ToInvoiceListItemResponse(inv *billing.Invoice) InvoiceListItemResponse {
	return InvoiceListItemResponse{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status.String(),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Currency:      inv.Currency.String(),
		ItemCount:     len(inv.Items),
		Total:         inv.Total,
		AmountPaid:    inv.AmountPaid,
		BalanceDue:    inv.BalanceDue(),
		CreatedAt:     inv.CreatedAt,
	}
}

// ToInvoiceListItemResponses converts a slice of invoices to list item DTOs
func ToInvoiceListItemResponses(invoices []billing.Invoice) []InvoiceListItemResponse {
	responses := make([]InvoiceListItemResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceListItemResponse(&invoices[i])
	}
	return responses
}
