package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DashboardStats is a read model summarizing an organization's invoices
type DashboardStats struct {
	OrganizationID    uuid.UUID            `json:"organization_id"`
	TotalInvoices     int64                `json:"total_invoices"`
	DraftCount        int64                `json:"draft_count"`
	SentCount         int64                `json:"sent_count"`
	PaidCount         int64                `json:"paid_count"`
	OverdueCount      int64                `json:"overdue_count"`
	CancelledCount    int64                `json:"cancelled_count"`
	TotalRevenue      decimal.Decimal      `json:"total_revenue"`      // sum of totals, non-cancelled
	TotalPaid         decimal.Decimal      `json:"total_paid"`         // sum of amounts paid
	TotalOutstanding  decimal.Decimal      `json:"total_outstanding"`  // balance over sent + overdue
	OverdueAmount     decimal.Decimal      `json:"overdue_amount"`     // balance over overdue only
	ActiveClientCount int64                `json:"active_client_count"`
	Currency          valueobject.Currency `json:"currency"`
	GeneratedAt       time.Time            `json:"generated_at"`
}

// RevenueBucket aggregates invoices issued on one calendar day.
// Days without invoices produce no bucket.
type RevenueBucket struct {
	Date         time.Time       `json:"date"`
	InvoiceCount int64           `json:"invoice_count"`
	Revenue      decimal.Decimal `json:"revenue"`
	Paid         decimal.Decimal `json:"paid"`
}

// RevenueReport is a read model for revenue over an issue-date range
type RevenueReport struct {
	OrganizationID   uuid.UUID       `json:"organization_id"`
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	Buckets          []RevenueBucket `json:"buckets"` // ascending by date
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalPaid        decimal.Decimal `json:"total_paid"`        // over paid invoices
	TotalOutstanding decimal.Decimal `json:"total_outstanding"` // over the rest
	InvoiceCount     int64           `json:"invoice_count"`
}

// OutstandingInvoice is one row of the outstanding report
type OutstandingInvoice struct {
	InvoiceID     uuid.UUID            `json:"invoice_id"`
	InvoiceNumber string               `json:"invoice_number"`
	ClientID      uuid.UUID            `json:"client_id"`
	ClientName    string               `json:"client_name"`
	Status        string               `json:"status"`
	IssueDate     time.Time            `json:"issue_date"`
	DueDate       time.Time            `json:"due_date"`
	Total         decimal.Decimal      `json:"total"`
	AmountPaid    decimal.Decimal      `json:"amount_paid"`
	BalanceDue    decimal.Decimal      `json:"balance_due"`
	DaysOverdue   int                  `json:"days_overdue"`
	Currency      valueobject.Currency `json:"currency"`
}

// OutstandingReport lists every unpaid sent or overdue invoice, sorted by
// days overdue descending
type OutstandingReport struct {
	OrganizationID   uuid.UUID            `json:"organization_id"`
	Invoices         []OutstandingInvoice `json:"invoices"`
	TotalOutstanding decimal.Decimal      `json:"total_outstanding"`
	OverdueAmount    decimal.Decimal      `json:"overdue_amount"`
	InvoiceCount     int64                `json:"invoice_count"`
	OverdueCount     int64                `json:"overdue_count"`
	GeneratedAt      time.Time            `json:"generated_at"`
}

// Activity event types
const (
	ActivityInvoiceCreated = "invoice_created"
	ActivityInvoiceSent    = "invoice_sent"
	ActivityInvoicePaid    = "invoice_paid"
)

// ActivityEvent is one entry in the recent-activity feed, derived from
// invoice timestamps rather than a persisted event log
type ActivityEvent struct {
	Type          string          `json:"type"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
