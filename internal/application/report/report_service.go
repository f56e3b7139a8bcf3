package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/organization"
	"github.com/invoicehub/backend/internal/domain/partner"
	"github.com/invoicehub/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StatsCache caches dashboard stats between reads. A nil cache or any cache
// error degrades to recomputation.
type StatsCache interface {
	GetDashboardStats(ctx context.Context, orgID uuid.UUID) (*report.DashboardStats, error)
	SetDashboardStats(ctx context.Context, orgID uuid.UUID, stats *report.DashboardStats) error
	InvalidateDashboardStats(ctx context.Context, orgID uuid.UUID) error
}

// ReportService computes read-only reports over an organization's invoices.
// Reports aggregate in memory over repository finders; they never mutate
// invoices and require no snapshot isolation.
type ReportService struct {
	invoiceRepo billing.Repository
	clientRepo  partner.Repository
	orgRepo     organization.Repository
	cache       StatsCache
	logger      *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(invoiceRepo billing.Repository, clientRepo partner.Repository, orgRepo organization.Repository, logger *zap.Logger) *ReportService {
	return &ReportService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		orgRepo:     orgRepo,
		logger:      logger,
	}
}

// SetCache enables dashboard stats caching
func (s *ReportService) SetCache(cache StatsCache) {
	s.cache = cache
}

// DashboardStats returns the organization's invoice summary
func (s *ReportService) DashboardStats(ctx context.Context, orgID uuid.UUID) (*report.DashboardStats, error) {
	if s.cache != nil {
		cached, err := s.cache.GetDashboardStats(ctx, orgID)
		if err != nil {
			s.logger.Warn("dashboard stats cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	counts, err := s.invoiceRepo.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}

	sums, err := s.invoiceRepo.SumTotals(ctx, orgID)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.invoiceRepo.FindOutstanding(ctx, orgID)
	if err != nil {
		return nil, err
	}
	totalOutstanding := decimal.Zero
	overdueAmount := decimal.Zero
	for i := range outstanding {
		balance := outstanding[i].BalanceDue()
		totalOutstanding = totalOutstanding.Add(balance)
		if outstanding[i].Status == billing.StatusOverdue {
			overdueAmount = overdueAmount.Add(balance)
		}
	}

	activeClients, err := s.clientRepo.CountActive(ctx, orgID)
	if err != nil {
		return nil, err
	}

	total := int64(0)
	for _, c := range counts {
		total += c
	}

	stats := &report.DashboardStats{
		OrganizationID:    orgID,
		TotalInvoices:     total,
		DraftCount:        counts[billing.StatusDraft],
		SentCount:         counts[billing.StatusSent],
		PaidCount:         counts[billing.StatusPaid],
		OverdueCount:      counts[billing.StatusOverdue],
		CancelledCount:    counts[billing.StatusCancelled],
		TotalRevenue:      sums.TotalRevenue,
		TotalPaid:         sums.TotalPaid,
		TotalOutstanding:  totalOutstanding,
		OverdueAmount:     overdueAmount,
		ActiveClientCount: activeClients,
		Currency:          org.Currency,
		GeneratedAt:       time.Now(),
	}

	if s.cache != nil {
		if err := s.cache.SetDashboardStats(ctx, orgID, stats); err != nil {
			s.logger.Warn("dashboard stats cache write failed", zap.Error(err))
		}
	}

	return stats, nil
}

// InvalidateDashboardStats drops the cached stats after invoice mutations
func (s *ReportService) InvalidateDashboardStats(ctx context.Context, orgID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDashboardStats(ctx, orgID); err != nil {
		s.logger.Warn("dashboard stats cache invalidation failed", zap.Error(err))
	}
}

// RevenueReport buckets non-cancelled invoices by issue date over the given
// range. Days without invoices produce no bucket.
func (s *ReportService) RevenueReport(ctx context.Context, orgID uuid.UUID, start, end time.Time) (*report.RevenueReport, error) {
	invoices, err := s.invoiceRepo.FindByIssueDateRange(ctx, orgID, start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*report.RevenueBucket)
	totalRevenue := decimal.Zero
	totalPaid := decimal.Zero
	totalOutstanding := decimal.Zero

	for i := range invoices {
		inv := &invoices[i]
		day := dateOnly(inv.IssueDate)

		bucket, ok := byDay[day]
		if !ok {
			bucket = &report.RevenueBucket{Date: day, Revenue: decimal.Zero, Paid: decimal.Zero}
			byDay[day] = bucket
		}
		bucket.InvoiceCount++
		bucket.Revenue = bucket.Revenue.Add(inv.Total)
		bucket.Paid = bucket.Paid.Add(inv.AmountPaid)

		totalRevenue = totalRevenue.Add(inv.Total)
		if inv.Status == billing.StatusPaid {
			totalPaid = totalPaid.Add(inv.AmountPaid)
		} else {
			totalOutstanding = totalOutstanding.Add(inv.BalanceDue())
		}
	}

	buckets := make([]report.RevenueBucket, 0, len(byDay))
	for _, bucket := range byDay {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})

	return &report.RevenueReport{
		OrganizationID:   orgID,
		PeriodStart:      start,
		PeriodEnd:        end,
		Buckets:          buckets,
		TotalRevenue:     totalRevenue,
		TotalPaid:        totalPaid,
		TotalOutstanding: totalOutstanding,
		InvoiceCount:     int64(len(invoices)),
	}, nil
}

// OutstandingReport lists every sent or overdue invoice with its balance,
// sorted by days overdue descending
func (s *ReportService) OutstandingReport(ctx context.Context, orgID uuid.UUID) (*report.OutstandingReport, error) {
	invoices, err := s.invoiceRepo.FindOutstanding(ctx, orgID)
	if err != nil {
		return nil, err
	}

	names := s.clientNames(ctx, orgID, invoices)
	now := time.Now()

	rows := make([]report.OutstandingInvoice, 0, len(invoices))
	totalOutstanding := decimal.Zero
	overdueAmount := decimal.Zero
	overdueCount := int64(0)

	for i := range invoices {
		inv := &invoices[i]
		balance := inv.BalanceDue()
		totalOutstanding = totalOutstanding.Add(balance)
		if inv.Status == billing.StatusOverdue {
			overdueAmount = overdueAmount.Add(balance)
			overdueCount++
		}

		rows = append(rows, report.OutstandingInvoice{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			ClientID:      inv.ClientID,
			ClientName:    names[inv.ClientID],
			Status:        inv.Status.String(),
			IssueDate:     inv.IssueDate,
			DueDate:       inv.DueDate,
			Total:         inv.Total,
			AmountPaid:    inv.AmountPaid,
			BalanceDue:    balance,
			DaysOverdue:   inv.DaysOverdue(now),
			Currency:      inv.Currency,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DaysOverdue > rows[j].DaysOverdue
	})

	return &report.OutstandingReport{
		OrganizationID:   orgID,
		Invoices:         rows,
		TotalOutstanding: totalOutstanding,
		OverdueAmount:    overdueAmount,
		InvoiceCount:     int64(len(rows)),
		OverdueCount:     overdueCount,
		GeneratedAt:      now,
	}, nil
}

// RecentActivity derives an activity feed from invoice timestamps: one
// created entry per invoice, plus sent and paid entries when those
// transitions happened. Newest first, truncated to limit.
func (s *ReportService) RecentActivity(ctx context.Context, orgID uuid.UUID, limit int) ([]report.ActivityEvent, error) {
	if limit <= 0 {
		limit = 10
	}

	invoices, err := s.invoiceRepo.FindRecent(ctx, orgID, limit)
	if err != nil {
		return nil, err
	}

	names := s.clientNames(ctx, orgID, invoices)

	events := make([]report.ActivityEvent, 0, len(invoices)*3)
	for i := range invoices {
		inv := &invoices[i]
		name := names[inv.ClientID]

		events = append(events, report.ActivityEvent{
			Type:          report.ActivityInvoiceCreated,
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			ClientName:    name,
			Amount:        inv.Total,
			OccurredAt:    inv.CreatedAt,
		})
		if inv.SentAt != nil {
			events = append(events, report.ActivityEvent{
				Type:          report.ActivityInvoiceSent,
				InvoiceID:     inv.ID,
				InvoiceNumber: inv.InvoiceNumber,
				ClientName:    name,
				Amount:        inv.Total,
				OccurredAt:    *inv.SentAt,
			})
		}
		if inv.PaidAt != nil {
			events = append(events, report.ActivityEvent{
				Type:          report.ActivityInvoicePaid,
				InvoiceID:     inv.ID,
				InvoiceNumber: inv.InvoiceNumber,
				ClientName:    name,
				Amount:        inv.AmountPaid,
				OccurredAt:    *inv.PaidAt,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})
	if len(events) > limit {
		events = events[:limit]
	}

	return events, nil
}

// csvHeader is the fixed column order of the invoice export
var csvHeader = []string{
	"invoice_number", "client_name", "status", "issue_date", "due_date",
	"subtotal", "tax_total", "total", "amount_paid", "balance_due", "currency",
}

// ExportCSV renders non-cancelled invoices issued in [start, end] as CSV
func (s *ReportService) ExportCSV(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]byte, error) {
	invoices, err := s.invoiceRepo.FindByIssueDateRange(ctx, orgID, start, end)
	if err != nil {
		return nil, err
	}

	names := s.clientNames(ctx, orgID, invoices)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for i := range invoices {
		inv := &invoices[i]
		record := []string{
			inv.InvoiceNumber,
			names[inv.ClientID],
			inv.Status.String(),
			inv.IssueDate.Format("2006-01-02"),
			inv.DueDate.Format("2006-01-02"),
			inv.Subtotal.StringFixed(2),
			inv.TaxTotal.StringFixed(2),
			inv.Total.StringFixed(2),
			inv.AmountPaid.StringFixed(2),
			inv.BalanceDue().StringFixed(2),
			inv.Currency.String(),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// clientNames resolves client display names for a set of invoices. Missing
// clients degrade to empty names, never fail a report.
func (s *ReportService) clientNames(ctx context.Context, orgID uuid.UUID, invoices []billing.Invoice) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string)
	ids := make([]uuid.UUID, 0, len(invoices))
	seen := make(map[uuid.UUID]struct{}, len(invoices))
	for i := range invoices {
		if _, ok := seen[invoices[i].ClientID]; !ok {
			seen[invoices[i].ClientID] = struct{}{}
			ids = append(ids, invoices[i].ClientID)
		}
	}
	if len(ids) == 0 {
		return names
	}

	clients, err := s.clientRepo.FindByIDs(ctx, orgID, ids)
	if err != nil {
		s.logger.Warn("client name lookup failed", zap.Error(err))
		return names
	}
	for i := range clients {
		names[clients[i].ID] = clients[i].DisplayName()
	}
	return names
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
