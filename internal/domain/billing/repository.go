package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TotalsSummary aggregates monetary sums over an organization's
// non-cancelled invoices
type TotalsSummary struct {
	TotalRevenue decimal.Decimal // sum of invoice totals
	TotalPaid    decimal.Decimal // sum of amounts paid
}

// Repository defines the persistence interface for invoices.
// All reads and writes are scoped to one organization; an invoice belonging
// to another organization behaves exactly like a missing one.
type Repository interface {
	// FindByIDForOrg returns an invoice with its items ordered by sort order
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Invoice, error)

	// FindByNumber returns an invoice by its organization-unique number
	FindByNumber(ctx context.Context, orgID uuid.UUID, invoiceNumber string) (*Invoice, error)

	// FindAllForOrg returns a filtered, paginated invoice listing
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[Invoice], error)

	// FindByClient returns all invoices billed to a client, newest first
	FindByClient(ctx context.Context, orgID, clientID uuid.UUID) ([]Invoice, error)

	// FindOutstanding returns sent and overdue invoices ordered by due date
	FindOutstanding(ctx context.Context, orgID uuid.UUID) ([]Invoice, error)

	// FindDueForOverdue returns sent invoices whose due date is before asOf
	FindDueForOverdue(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]Invoice, error)

	// FindByIssueDateRange returns non-cancelled invoices issued in [start, end]
	FindByIssueDateRange(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]Invoice, error)

	// FindRecent returns the most recently updated invoices
	FindRecent(ctx context.Context, orgID uuid.UUID, limit int) ([]Invoice, error)

	// CountByStatus returns invoice counts grouped by status
	CountByStatus(ctx context.Context, orgID uuid.UUID) (map[InvoiceStatus]int64, error)

	// SumTotals returns monetary sums over non-cancelled invoices
	SumTotals(ctx context.Context, orgID uuid.UUID) (TotalsSummary, error)

	// CountByClient returns how many invoices reference the client
	CountByClient(ctx context.Context, orgID, clientID uuid.UUID) (int64, error)

	// ExistsByNumber checks whether an invoice number is already taken
	ExistsByNumber(ctx context.Context, orgID uuid.UUID, invoiceNumber string) (bool, error)

	// Save persists a new invoice together with its items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock persists an existing invoice using optimistic locking,
	// replacing its items, and returns shared.ErrConcurrencyConflict when
	// the stored version has moved on
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// DeleteForOrg removes a draft invoice and its items
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error
}
