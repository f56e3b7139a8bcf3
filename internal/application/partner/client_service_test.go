package partner

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/partner"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClientRepository is a mock implementation of partner.Repository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindByEmail(ctx context.Context, orgID uuid.UUID, email string) (*partner.Client, error) {
	args := m.Called(ctx, orgID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[partner.Client], error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(shared.Paginated[partner.Client]), args.Error(1)
}

func (m *MockClientRepository) FindActive(ctx context.Context, orgID uuid.UUID) ([]partner.Client, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]partner.Client, error) {
	args := m.Called(ctx, orgID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) ExistsByEmail(ctx context.Context, orgID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, orgID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) CountActive(ctx context.Context, orgID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of billing.Repository.
// Only the methods the client service touches carry expectations.
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, orgID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, orgID, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[billing.Invoice], error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(shared.Paginated[billing.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) FindByClient(ctx context.Context, orgID, clientID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, orgID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOutstanding(ctx context.Context, orgID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindDueForOverdue(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]billing.Invoice, error) {
	args := m.Called(ctx, orgID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIssueDateRange(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]billing.Invoice, error) {
	args := m.Called(ctx, orgID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindRecent(ctx context.Context, orgID uuid.UUID, limit int) ([]billing.Invoice, error) {
	args := m.Called(ctx, orgID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountByStatus(ctx context.Context, orgID uuid.UUID) (map[billing.InvoiceStatus]int64, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[billing.InvoiceStatus]int64), args.Error(1)
}

func (m *MockInvoiceRepository) CountByClient(ctx context.Context, orgID, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SumTotals(ctx context.Context, orgID uuid.UUID) (billing.TotalsSummary, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(billing.TotalsSummary), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, orgID uuid.UUID, invoiceNumber string) (bool, error) {
	args := m.Called(ctx, orgID, invoiceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func newTestService() (*ClientService, *MockClientRepository, *MockInvoiceRepository) {
	clientRepo := new(MockClientRepository)
	invoiceRepo := new(MockInvoiceRepository)
	return NewClientService(clientRepo, invoiceRepo), clientRepo, invoiceRepo
}

func TestClientService_Create(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("success", func(t *testing.T) {
		service, clientRepo, _ := newTestService()

		clientRepo.On("ExistsByEmail", ctx, orgID, "jane@example.com").Return(false, nil)
		clientRepo.On("Save", ctx, mock.AnythingOfType("*partner.Client")).Return(nil)

		resp, err := service.Create(ctx, orgID, CreateClientRequest{
			Name:        "Jane Cooper",
			CompanyName: "Cooper Industries",
			Email:       "jane@example.com",
			Currency:    "EUR",
		})
		require.NoError(t, err)
		assert.Equal(t, "Cooper Industries", resp.DisplayName)
		assert.Equal(t, "EUR", resp.Currency)
		assert.True(t, resp.IsActive)
	})

	t.Run("duplicate email", func(t *testing.T) {
		service, clientRepo, _ := newTestService()

		clientRepo.On("ExistsByEmail", ctx, orgID, "jane@example.com").Return(true, nil)

		_, err := service.Create(ctx, orgID, CreateClientRequest{
			Name:  "Jane Cooper",
			Email: "jane@example.com",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestClientService_Update(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("email change checks uniqueness", func(t *testing.T) {
		service, clientRepo, _ := newTestService()
		client, err := partner.NewClient(orgID, "Jane Cooper", "jane@example.com")
		require.NoError(t, err)

		newEmail := "taken@example.com"
		clientRepo.On("FindByIDForOrg", ctx, orgID, client.ID).Return(client, nil)
		clientRepo.On("ExistsByEmail", ctx, orgID, newEmail).Return(true, nil)

		_, err = service.Update(ctx, orgID, client.ID, UpdateClientRequest{Email: &newEmail})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("deactivate via update", func(t *testing.T) {
		service, clientRepo, _ := newTestService()
		client, err := partner.NewClient(orgID, "Jane Cooper", "jane@example.com")
		require.NoError(t, err)

		inactive := false
		clientRepo.On("FindByIDForOrg", ctx, orgID, client.ID).Return(client, nil)
		clientRepo.On("Save", ctx, client).Return(nil)

		resp, err := service.Update(ctx, orgID, client.ID, UpdateClientRequest{IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, resp.IsActive)
	})
}

func TestClientService_Delete(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("blocked when invoices exist", func(t *testing.T) {
		service, clientRepo, invoiceRepo := newTestService()
		client, err := partner.NewClient(orgID, "Jane Cooper", "jane@example.com")
		require.NoError(t, err)

		clientRepo.On("FindByIDForOrg", ctx, orgID, client.ID).Return(client, nil)
		invoiceRepo.On("CountByClient", ctx, orgID, client.ID).Return(int64(3), nil)

		err = service.Delete(ctx, orgID, client.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		clientRepo.AssertNotCalled(t, "DeleteForOrg", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes unused client", func(t *testing.T) {
		service, clientRepo, invoiceRepo := newTestService()
		client, err := partner.NewClient(orgID, "Jane Cooper", "jane@example.com")
		require.NoError(t, err)

		clientRepo.On("FindByIDForOrg", ctx, orgID, client.ID).Return(client, nil)
		invoiceRepo.On("CountByClient", ctx, orgID, client.ID).Return(int64(0), nil)
		clientRepo.On("DeleteForOrg", ctx, orgID, client.ID).Return(nil)

		require.NoError(t, service.Delete(ctx, orgID, client.ID))
		clientRepo.AssertExpectations(t)
	})
}
