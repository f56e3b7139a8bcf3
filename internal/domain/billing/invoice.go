package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusSent      InvoiceStatus = "sent"
	StatusPaid      InvoiceStatus = "paid"
	StatusOverdue   InvoiceStatus = "overdue"
	StatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusSent || target == StatusCancelled
	case StatusSent:
		return target == StatusPaid || target == StatusOverdue || target == StatusCancelled
	case StatusOverdue:
		return target == StatusPaid || target == StatusCancelled
	case StatusPaid, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// hundred is the percentage divisor shared by the item calculators
var hundred = decimal.NewFromInt(100)

// InvoiceItem represents one line on an invoice. Items are owned exclusively
// by their invoice and exist only while the invoice exists.
type InvoiceItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID       *uuid.UUID
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	TaxRate         decimal.Decimal // percent, 0-100
	DiscountPercent decimal.Decimal // percent, 0-100
	SortOrder       int             // unique ordering key within the invoice
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates a new invoice line item
func NewInvoiceItem(invoiceID uuid.UUID, productID *uuid.UUID, description string, quantity, unitPrice, taxRate, discountPercent decimal.Decimal, sortOrder int) (*InvoiceItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}

	now := time.Now()
	return &InvoiceItem{
		ID:              uuid.New(),
		InvoiceID:       invoiceID,
		ProductID:       productID,
		Description:     description,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		TaxRate:         taxRate,
		DiscountPercent: discountPercent,
		SortOrder:       sortOrder,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Gross returns quantity * unit price before discount and tax, rounded
// half-up to two decimals
func (i *InvoiceItem) Gross() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice).Round(valueobject.MoneyScale)
}

// DiscountAmount returns the discount applied to the gross amount
func (i *InvoiceItem) DiscountAmount() decimal.Decimal {
	return i.Gross().Mul(i.DiscountPercent).Div(hundred).Round(valueobject.MoneyScale)
}

// Taxable returns the amount tax is computed over (gross minus discount)
func (i *InvoiceItem) Taxable() decimal.Decimal {
	return i.Gross().Sub(i.DiscountAmount())
}

// TaxAmount returns the tax charged on the taxable amount
func (i *InvoiceItem) TaxAmount() decimal.Decimal {
	return i.Taxable().Mul(i.TaxRate).Div(hundred).Round(valueobject.MoneyScale)
}

// Total returns the line total including tax
func (i *InvoiceItem) Total() decimal.Decimal {
	return i.Taxable().Add(i.TaxAmount())
}

func (i *InvoiceItem) update(description *string, quantity, unitPrice, taxRate, discountPercent *decimal.Decimal) error {
	if description != nil {
		if *description == "" {
			return shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
		}
		i.Description = *description
	}
	if quantity != nil {
		if quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		i.Quantity = *quantity
	}
	if unitPrice != nil {
		if unitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		i.UnitPrice = *unitPrice
	}
	if taxRate != nil {
		if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
			return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
		}
		i.TaxRate = *taxRate
	}
	if discountPercent != nil {
		if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
			return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
		}
		i.DiscountPercent = *discountPercent
	}
	i.UpdatedAt = time.Now()
	return nil
}

// Invoice is the aggregate root for the invoice lifecycle. It owns its line
// items and all monetary totals derived from them.
type Invoice struct {
	shared.OrgAggregateRoot
	ClientID      uuid.UUID `gorm:"type:uuid;not null;index"`
	InvoiceNumber string    `gorm:"not null;uniqueIndex:idx_invoices_org_number,composite:organization_id"`
	Status        InvoiceStatus
	IssueDate     time.Time
	DueDate       time.Time
	Currency      valueobject.Currency
	Subtotal      decimal.Decimal // sum of item gross amounts, pre-discount
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal // Subtotal - DiscountTotal + TaxTotal
	AmountPaid    decimal.Decimal // meaningful only once status != draft
	Notes         string
	Terms         string
	Footer        string
	SentAt        *time.Time
	PaidAt        *time.Time
	CancelledAt   *time.Time
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new draft invoice
func NewInvoice(orgID, clientID uuid.UUID, invoiceNumber string, issueDate, dueDate time.Time, currency valueobject.Currency) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}

	inv := &Invoice{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		ClientID:         clientID,
		InvoiceNumber:    invoiceNumber,
		Status:           StatusDraft,
		IssueDate:        issueDate,
		DueDate:          dueDate,
		Currency:         currency,
		Subtotal:         decimal.Zero,
		DiscountTotal:    decimal.Zero,
		TaxTotal:         decimal.Zero,
		Total:            decimal.Zero,
		AmountPaid:       decimal.Zero,
		Items:            make([]InvoiceItem, 0),
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// AddItem appends a new line item. Only allowed while the invoice is a draft.
func (inv *Invoice) AddItem(productID *uuid.UUID, description string, quantity, unitPrice, taxRate, discountPercent decimal.Decimal) (*InvoiceItem, error) {
	if inv.Status != StatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}

	item, err := NewInvoiceItem(inv.ID, productID, description, quantity, unitPrice, taxRate, discountPercent, len(inv.Items))
	if err != nil {
		return nil, err
	}

	inv.Items = append(inv.Items, *item)
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItem applies a partial update to an existing line item and recomputes
// the invoice totals. Only allowed while the invoice is a draft.
func (inv *Invoice) UpdateItem(itemID uuid.UUID, description *string, quantity, unitPrice, taxRate, discountPercent *decimal.Decimal) error {
	if inv.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}

	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			if err := inv.Items[idx].update(description, quantity, unitPrice, taxRate, discountPercent); err != nil {
				return err
			}
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Invoice item not found")
}

// RemoveItem removes a line item and closes the sort-order gap.
// Only allowed while the invoice is a draft.
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if inv.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}

	for idx, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			for i := range inv.Items {
				inv.Items[i].SortOrder = i
			}
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Invoice item not found")
}

// SetClient changes the billed client. Only allowed while a draft.
func (inv *Invoice) SetClient(clientID uuid.UUID) error {
	if inv.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	if clientID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	inv.ClientID = clientID
	inv.UpdatedAt = time.Now()
	return nil
}

// SetDates updates issue and due dates. Only allowed while a draft.
func (inv *Invoice) SetDates(issueDate, dueDate time.Time) error {
	if inv.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	if dueDate.Before(issueDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}

	inv.IssueDate = issueDate
	inv.DueDate = dueDate
	inv.UpdatedAt = time.Now()
	return nil
}

// SetNotes updates the free-text fields. Only allowed while a draft.
func (inv *Invoice) SetNotes(notes, terms, footer string) error {
	if inv.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}

	inv.Notes = notes
	inv.Terms = terms
	inv.Footer = footer
	inv.UpdatedAt = time.Now()
	return nil
}

// Send transitions the invoice from draft to sent.
// Requires at least one line item.
func (inv *Invoice) Send() error {
	if !inv.Status.CanTransitionTo(StatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send invoice in %s status", inv.Status))
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send invoice without line items")
	}

	now := time.Now()
	inv.Status = StatusSent
	inv.SentAt = &now
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewInvoiceSentEvent(inv))

	return nil
}

// MarkPaid records payment for a sent or overdue invoice. When amountPaid is
// nil the full invoice total is recorded; when paidAt is nil the current time
// is used.
func (inv *Invoice) MarkPaid(amountPaid *decimal.Decimal, paidAt *time.Time) error {
	if inv.Status == StatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already marked as paid")
	}
	if inv.Status == StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot mark draft invoice as paid")
	}
	if !inv.Status.CanTransitionTo(StatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark invoice in %s status as paid", inv.Status))
	}

	amount := inv.Total
	if amountPaid != nil {
		if amountPaid.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Amount paid cannot be negative")
		}
		amount = *amountPaid
	}

	when := time.Now()
	if paidAt != nil {
		when = *paidAt
	}

	inv.Status = StatusPaid
	inv.AmountPaid = amount
	inv.PaidAt = &when
	inv.UpdatedAt = time.Now()

	inv.AddDomainEvent(NewInvoicePaidEvent(inv))

	return nil
}

// MarkOverdue flips a sent invoice past its due date to overdue. This is
// driven by the reconciliation pass, never implicitly by other operations.
func (inv *Invoice) MarkOverdue(asOf time.Time) error {
	if inv.Status != StatusSent {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark invoice in %s status as overdue", inv.Status))
	}
	if !dateOnly(inv.DueDate).Before(dateOnly(asOf)) {
		return shared.NewDomainError("INVALID_STATE", "Invoice is not past its due date")
	}

	inv.Status = StatusOverdue
	inv.UpdatedAt = time.Now()

	inv.AddDomainEvent(NewInvoiceOverdueEvent(inv))

	return nil
}

// Cancel voids an unpaid invoice
func (inv *Invoice) Cancel() error {
	if !inv.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel invoice in %s status", inv.Status))
	}

	now := time.Now()
	inv.Status = StatusCancelled
	inv.CancelledAt = &now
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))

	return nil
}

// recalculateTotals replaces the four total fields from the current items.
// Callers persist the whole aggregate in one save so readers never observe a
// partially recomputed invoice.
func (inv *Invoice) recalculateTotals() {
	subtotal := decimal.Zero
	discountTotal := decimal.Zero
	taxTotal := decimal.Zero

	for idx := range inv.Items {
		item := &inv.Items[idx]
		subtotal = subtotal.Add(item.Gross())
		discountTotal = discountTotal.Add(item.DiscountAmount())
		taxTotal = taxTotal.Add(item.TaxAmount())
	}

	inv.Subtotal = subtotal
	inv.DiscountTotal = discountTotal
	inv.TaxTotal = taxTotal
	inv.Total = subtotal.Sub(discountTotal).Add(taxTotal)
}

// BalanceDue returns the unpaid remainder of the invoice total
func (inv *Invoice) BalanceDue() decimal.Decimal {
	return inv.Total.Sub(inv.AmountPaid)
}

// DaysOverdue returns how many whole days the invoice is past due as of the
// given date, never negative
func (inv *Invoice) DaysOverdue(asOf time.Time) int {
	days := int(dateOnly(asOf).Sub(dateOnly(inv.DueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// IsPastDue reports whether an unpaid invoice is past its due date
func (inv *Invoice) IsPastDue(asOf time.Time) bool {
	if inv.Status == StatusPaid || inv.Status == StatusCancelled || inv.Status == StatusDraft {
		return false
	}
	return dateOnly(inv.DueDate).Before(dateOnly(asOf))
}

// ItemCount returns the number of line items
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}

// GetItem returns an item by its ID
func (inv *Invoice) GetItem(itemID uuid.UUID) *InvoiceItem {
	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			return &inv.Items[idx]
		}
	}
	return nil
}

// IsDraft returns true if the invoice is a draft
func (inv *Invoice) IsDraft() bool {
	return inv.Status == StatusDraft
}

// IsPaid returns true if the invoice has been paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == StatusPaid
}

// CanModify returns true if header fields and items may be mutated
func (inv *Invoice) CanModify() bool {
	return inv.IsDraft()
}

// dateOnly maps a timestamp to its calendar date at UTC midnight. Anchoring
// in UTC keeps day arithmetic exact: local midnights shift under DST, so a
// Sub across a transition would not be a whole number of 24h days.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
