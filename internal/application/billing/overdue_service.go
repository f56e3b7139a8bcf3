package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/organization"
	"github.com/invoicehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OverdueService reconciles persisted invoice status with the calendar.
// Sent invoices past their due date are flipped to overdue through the state
// machine; everything downstream (listings, reports) trusts the persisted
// status instead of re-deriving it per read.
type OverdueService struct {
	invoiceRepo    billing.Repository
	orgRepo        organization.Repository
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewOverdueService creates a new OverdueService
func NewOverdueService(invoiceRepo billing.Repository, orgRepo organization.Repository, logger *zap.Logger) *OverdueService {
	return &OverdueService{
		invoiceRepo: invoiceRepo,
		orgRepo:     orgRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OverdueService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ReconcileOverdue flips the organization's sent invoices past their due
// date to overdue. A concurrent edit on one invoice skips that invoice and
// continues; the next pass picks it up.
func (s *OverdueService) ReconcileOverdue(ctx context.Context, orgID uuid.UUID) (*ReconcileOverdueResponse, error) {
	asOf := time.Now()

	due, err := s.invoiceRepo.FindDueForOverdue(ctx, orgID, asOf)
	if err != nil {
		return nil, err
	}

	result := &ReconcileOverdueResponse{Checked: len(due)}
	for i := range due {
		inv := &due[i]
		if err := inv.MarkOverdue(asOf); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", inv.InvoiceNumber, err))
			continue
		}
		if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				s.logger.Debug("invoice changed during overdue pass, skipping",
					zap.String("invoice_number", inv.InvoiceNumber))
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", inv.InvoiceNumber, err))
			continue
		}
		if s.eventPublisher != nil {
			for _, e := range inv.GetDomainEvents() {
				_ = s.eventPublisher.Publish(ctx, e)
			}
		}
		inv.ClearDomainEvents()
		result.Flipped++
	}

	if result.Flipped > 0 {
		s.logger.Info("overdue reconciliation complete",
			zap.String("organization_id", orgID.String()),
			zap.Int("checked", result.Checked),
			zap.Int("flipped", result.Flipped))
	}

	return result, nil
}

// ReconcileAll runs the overdue pass for every organization. Used by the
// scheduler loop.
func (s *OverdueService) ReconcileAll(ctx context.Context) error {
	orgIDs, err := s.orgRepo.FindAllIDs(ctx)
	if err != nil {
		return err
	}

	for _, orgID := range orgIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.ReconcileOverdue(ctx, orgID); err != nil {
			s.logger.Error("overdue reconciliation failed",
				zap.String("organization_id", orgID.String()),
				zap.Error(err))
		}
	}

	return nil
}
