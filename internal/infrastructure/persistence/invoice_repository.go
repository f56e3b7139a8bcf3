package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements billing.Repository using GORM.
// Invoices are loaded with their items ordered by sort_order; writes sync
// the item set in the same transaction as the header.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}

// FindByIDForOrg finds an invoice with its items within the organization
func (r *GormInvoiceRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.withItems(r.db.WithContext(ctx)).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its organization-unique number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, orgID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.withItems(r.db.WithContext(ctx)).
		Where("organization_id = ? AND invoice_number = ?", orgID, invoiceNumber).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForOrg returns a filtered, paginated invoice listing
func (r *GormInvoiceRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[billing.Invoice], error) {
	base := r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("organization_id = ?", orgID)
	base = r.applyFilters(base, filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[billing.Invoice]{}, err
	}

	query := r.withItems(r.applyOrdering(base.Session(&gorm.Session{}), filter))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var invoices []billing.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return shared.Paginated[billing.Invoice]{}, err
	}

	return shared.NewPaginated(invoices, total, filter.Page, filter.PageSize), nil
}

// FindByClient returns every invoice for one client, newest first
func (r *GormInvoiceRepository) FindByClient(ctx context.Context, orgID, clientID uuid.UUID) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.withItems(r.db.WithContext(ctx)).
		Where("organization_id = ? AND client_id = ?", orgID, clientID).
		Order("issue_date DESC, created_at DESC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindOutstanding returns sent and overdue invoices
func (r *GormInvoiceRepository) FindOutstanding(ctx context.Context, orgID uuid.UUID) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.withItems(r.db.WithContext(ctx)).
		Where("organization_id = ? AND status IN ?", orgID,
			[]billing.InvoiceStatus{billing.StatusSent, billing.StatusOverdue}).
		Order("due_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindDueForOverdue returns sent invoices whose due date has passed as of
// the given day
func (r *GormInvoiceRepository) FindDueForOverdue(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]billing.Invoice, error) {
	dayStart := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	var invoices []billing.Invoice
	if err := r.withItems(r.db.WithContext(ctx)).
		Where("organization_id = ? AND status = ? AND due_date < ?",
			orgID, billing.StatusSent, dayStart).
		Order("due_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByIssueDateRange returns invoices issued within [start, end]
func (r *GormInvoiceRepository) FindByIssueDateRange(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.withItems(r.db.WithContext(ctx)).
		Where("organization_id = ? AND issue_date >= ? AND issue_date <= ?", orgID, start, end).
		Order("issue_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindRecent returns the most recently updated invoices
func (r *GormInvoiceRepository) FindRecent(ctx context.Context, orgID uuid.UUID, limit int) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.withItems(r.db.WithContext(ctx)).
		Where("organization_id = ?", orgID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountByStatus returns invoice counts grouped by status
func (r *GormInvoiceRepository) CountByStatus(ctx context.Context, orgID uuid.UUID) (map[billing.InvoiceStatus]int64, error) {
	type statusCount struct {
		Status billing.InvoiceStatus
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Select("status, COUNT(*) as count").
		Where("organization_id = ?", orgID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[billing.InvoiceStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountByClient counts invoices referencing the client
func (r *GormInvoiceRepository) CountByClient(ctx context.Context, orgID, clientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("organization_id = ? AND client_id = ?", orgID, clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumTotals sums invoice totals and amounts paid over non-cancelled invoices
func (r *GormInvoiceRepository) SumTotals(ctx context.Context, orgID uuid.UUID) (billing.TotalsSummary, error) {
	type sums struct {
		TotalRevenue decimal.Decimal
		TotalPaid    decimal.Decimal
	}
	var row sums
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Select("COALESCE(SUM(total), 0) as total_revenue, COALESCE(SUM(amount_paid), 0) as total_paid").
		Where("organization_id = ? AND status <> ?", orgID, billing.StatusCancelled).
		Scan(&row).Error; err != nil {
		return billing.TotalsSummary{}, err
	}
	return billing.TotalsSummary{
		TotalRevenue: row.TotalRevenue,
		TotalPaid:    row.TotalPaid,
	}, nil
}

// ExistsByNumber checks whether an invoice number is taken in the organization
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, orgID uuid.UUID, invoiceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("organization_id = ? AND invoice_number = ?", orgID, invoiceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an invoice together with its items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(invoice).Error; err != nil {
			return err
		}
		return r.syncItems(tx, invoice)
	})
}

// SaveWithLock updates an invoice with an optimistic version check. The
// aggregate increments its version before save; the UPDATE matches the
// previous one, so a concurrent writer makes this a no-op and the caller
// gets shared.ErrConcurrencyConflict.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&billing.Invoice{}).
			Where("id = ? AND organization_id = ? AND version = ?",
				invoice.ID, invoice.OrganizationID, invoice.Version-1).
			Select("*").
			Omit("id", "organization_id", "created_at", "Items").
			Updates(invoice)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.syncItems(tx, invoice)
	})
}

// syncItems makes the stored item set match the aggregate: removed lines are
// deleted, the rest upserted
func (r *GormInvoiceRepository) syncItems(tx *gorm.DB, invoice *billing.Invoice) error {
	keep := make([]uuid.UUID, len(invoice.Items))
	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
		keep[i] = invoice.Items[i].ID
	}

	del := tx.Where("invoice_id = ?", invoice.ID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(&billing.InvoiceItem{}).Error; err != nil {
		return err
	}

	if len(invoice.Items) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&invoice.Items).Error
}

// DeleteForOrg removes an invoice and its items
func (r *GormInvoiceRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&billing.InvoiceItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&billing.Invoice{}, "organization_id = ? AND id = ?", orgID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormInvoiceRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR notes ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "start_date":
			query = query.Where("issue_date >= ?", value)
		case "end_date":
			query = query.Where("issue_date <= ?", value)
		}
	}

	return query
}

var invoiceSortColumns = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"issue_date":     true,
	"due_date":       true,
	"invoice_number": true,
	"total":          true,
	"status":         true,
}

func (r *GormInvoiceRepository) applyOrdering(query *gorm.DB, filter shared.Filter) *gorm.DB {
	column := "created_at"
	if invoiceSortColumns[filter.OrderBy] {
		column = filter.OrderBy
	}
	direction := "DESC"
	if strings.ToLower(filter.OrderDir) == "asc" {
		direction = "ASC"
	}
	return query.Order(column + " " + direction)
}

// Ensure GormInvoiceRepository implements billing.Repository
var _ billing.Repository = (*GormInvoiceRepository)(nil)
