package persistence

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/organization"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockOrganizationRepository creates a GormOrganizationRepository with a mocked SQL connection
func newMockOrganizationRepository(t *testing.T) (*GormOrganizationRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOrganizationRepository(gormDB), mock, mockDB
}

func TestGormOrganizationRepository_FindByID(t *testing.T) {
	t.Run("finds existing organization", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "name", "currency", "invoice_prefix", "invoice_next_number", "default_tax_rate", "default_payment_terms"}).
			AddRow(orgID, 1, "Acme Studio", "USD", "INV", int64(12), decimal.Zero, 30)

		mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orgID, 1).
			WillReturnRows(rows)

		org, err := repo.FindByID(context.Background(), orgID)

		assert.NoError(t, err)
		assert.NotNil(t, org)
		assert.Equal(t, orgID, org.ID)
		assert.Equal(t, "Acme Studio", org.Name)
		assert.Equal(t, int64(12), org.InvoiceNextNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent organization", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orgID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		org, err := repo.FindByID(context.Background(), orgID)

		assert.Error(t, err)
		assert.Nil(t, org)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrganizationRepository_FindAllIDs(t *testing.T) {
	t.Run("returns all organization IDs", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		id1 := uuid.New()
		id2 := uuid.New()

		rows := sqlmock.NewRows([]string{"id"}).
			AddRow(id1).
			AddRow(id2)

		mock.ExpectQuery(`SELECT "id" FROM "organizations" ORDER BY created_at ASC`).
			WillReturnRows(rows)

		ids, err := repo.FindAllIDs(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, []uuid.UUID{id1, id2}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrganizationRepository_Save(t *testing.T) {
	t.Run("saves organization", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		org, err := organization.NewOrganization("Acme Studio")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "organizations" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), org)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrganizationRepository_NextInvoiceNumber(t *testing.T) {
	t.Run("allocates sequential numbers from the counter", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		// The UPDATE returns the already-incremented counter; the allocated
		// value is one less.
		rows := sqlmock.NewRows([]string{"invoice_next_number", "invoice_prefix"}).
			AddRow(int64(43), "INV")

		mock.ExpectQuery(`UPDATE "organizations" SET "invoice_next_number"=invoice_next_number \+ 1 WHERE id = \$1 RETURNING`).
			WithArgs(orgID).
			WillReturnRows(rows)

		seq, number, err := repo.NextInvoiceNumber(context.Background(), orgID)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), seq)
		assert.Equal(t, "INV-0042", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("uses the stored prefix for formatting", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		rows := sqlmock.NewRows([]string{"invoice_next_number", "invoice_prefix"}).
			AddRow(int64(2), "ACME")

		mock.ExpectQuery(`UPDATE "organizations" SET "invoice_next_number"=invoice_next_number \+ 1 WHERE id = \$1 RETURNING`).
			WithArgs(orgID).
			WillReturnRows(rows)

		seq, number, err := repo.NextInvoiceNumber(context.Background(), orgID)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), seq)
		assert.Equal(t, "ACME-0001", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent organization", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		mock.ExpectQuery(`UPDATE "organizations" SET "invoice_next_number"=invoice_next_number \+ 1 WHERE id = \$1 RETURNING`).
			WithArgs(orgID).
			WillReturnRows(sqlmock.NewRows([]string{"invoice_next_number", "invoice_prefix"}))

		_, _, err := repo.NextInvoiceNumber(context.Background(), orgID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrganizationRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements organization.Repository interface", func(t *testing.T) {
		repo, _, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		var _ organization.Repository = repo
	})
}

// serialAllocator models the counter contract the single-statement UPDATE
// gives us: each allocation is one serialized read-and-increment, so two
// allocators can never observe the same counter value.
type serialAllocator struct {
	mu     sync.Mutex
	prefix string
	next   int64
}

func (a *serialAllocator) NextInvoiceNumber(_ context.Context, _ uuid.UUID) (int64, string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	allocated := a.next
	a.next++
	return allocated, organization.FormatInvoiceNumber(a.prefix, allocated), nil
}

func TestInvoiceNumberAllocation_ConcurrentAllocators(t *testing.T) {
	const (
		workers        = 8
		perWorker      = 50
		totalAllocated = workers * perWorker
	)

	store := &serialAllocator{prefix: "INV", next: 1}
	orgID := uuid.New()

	var wg sync.WaitGroup
	results := make(chan string, totalAllocated)
	sequences := make(chan int64, totalAllocated)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				seq, number, err := store.NextInvoiceNumber(context.Background(), orgID)
				assert.NoError(t, err)
				sequences <- seq
				results <- number
			}
		}()
	}
	wg.Wait()
	close(results)
	close(sequences)

	seenNumbers := make(map[string]bool, totalAllocated)
	for number := range results {
		assert.False(t, seenNumbers[number], "invoice number %s allocated twice", number)
		seenNumbers[number] = true
	}
	assert.Len(t, seenNumbers, totalAllocated)

	var maxSeq int64
	seenSeqs := make(map[int64]bool, totalAllocated)
	for seq := range sequences {
		assert.False(t, seenSeqs[seq], "sequence %d reused", seq)
		seenSeqs[seq] = true
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	// No gaps and no reuse: exactly the range [1, total]
	assert.Equal(t, int64(totalAllocated), maxSeq)
	assert.Len(t, seenSeqs, totalAllocated)
}

func TestInvoiceNumberAllocation_WidthGrowsPastPadding(t *testing.T) {
	store := &serialAllocator{prefix: "INV", next: 9999}

	_, first, err := store.NextInvoiceNumber(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "INV-9999", first)

	_, second, err := store.NextInvoiceNumber(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "INV-10000", second, "padding widens, never truncates")
}
