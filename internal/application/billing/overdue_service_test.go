package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	domainbilling "github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPastDueInvoice(t *testing.T, orgID uuid.UUID, number string) domainbilling.Invoice {
	issue := time.Now().AddDate(0, 0, -60)
	inv, err := domainbilling.NewInvoice(orgID, uuid.New(), number, issue, issue.AddDate(0, 0, 30), valueobject.USD)
	require.NoError(t, err)
	_, err = inv.AddItem(nil, "Consulting", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, inv.Send())
	return *inv
}

func TestOverdueService_ReconcileOverdue(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("flips past-due sent invoices", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		orgRepo := new(MockOrganizationRepository)
		service := NewOverdueService(invoiceRepo, orgRepo, zap.NewNop())

		due := []domainbilling.Invoice{
			newPastDueInvoice(t, orgID, "INV-0001"),
			newPastDueInvoice(t, orgID, "INV-0002"),
		}

		invoiceRepo.On("FindDueForOverdue", ctx, orgID, mock.AnythingOfType("time.Time")).Return(due, nil)
		invoiceRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		result, err := service.ReconcileOverdue(ctx, orgID)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Checked)
		assert.Equal(t, 2, result.Flipped)
		assert.Empty(t, result.Errors)
	})

	t.Run("concurrent edit skips the invoice", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		orgRepo := new(MockOrganizationRepository)
		service := NewOverdueService(invoiceRepo, orgRepo, zap.NewNop())

		due := []domainbilling.Invoice{newPastDueInvoice(t, orgID, "INV-0001")}

		invoiceRepo.On("FindDueForOverdue", ctx, orgID, mock.AnythingOfType("time.Time")).Return(due, nil)
		invoiceRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*billing.Invoice")).Return(shared.ErrConcurrencyConflict)

		result, err := service.ReconcileOverdue(ctx, orgID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Checked)
		assert.Equal(t, 0, result.Flipped)
		assert.Empty(t, result.Errors, "conflicts are skipped, not reported")
	})

	t.Run("empty organization", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		orgRepo := new(MockOrganizationRepository)
		service := NewOverdueService(invoiceRepo, orgRepo, zap.NewNop())

		invoiceRepo.On("FindDueForOverdue", ctx, orgID, mock.AnythingOfType("time.Time")).Return([]domainbilling.Invoice{}, nil)

		result, err := service.ReconcileOverdue(ctx, orgID)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Checked)
		assert.Equal(t, 0, result.Flipped)
	})
}

func TestOverdueService_ReconcileAll(t *testing.T) {
	ctx := context.Background()
	orgA := uuid.New()
	orgB := uuid.New()

	invoiceRepo := new(MockInvoiceRepository)
	orgRepo := new(MockOrganizationRepository)
	service := NewOverdueService(invoiceRepo, orgRepo, zap.NewNop())

	orgRepo.On("FindAllIDs", ctx).Return([]uuid.UUID{orgA, orgB}, nil)
	invoiceRepo.On("FindDueForOverdue", ctx, orgA, mock.AnythingOfType("time.Time")).Return([]domainbilling.Invoice{}, nil)
	invoiceRepo.On("FindDueForOverdue", ctx, orgB, mock.AnythingOfType("time.Time")).Return([]domainbilling.Invoice{}, nil)

	require.NoError(t, service.ReconcileAll(ctx))
	invoiceRepo.AssertExpectations(t)
}
