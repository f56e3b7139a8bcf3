package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/organization"
	"github.com/invoicehub/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrganizationRepository implements organization.Repository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	var org organization.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// FindAllIDs returns the IDs of every organization
func (r *GormOrganizationRepository) FindAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&organization.Organization{}).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates an organization
func (r *GormOrganizationRepository) Save(ctx context.Context, org *organization.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

// NextInvoiceNumber atomically consumes the invoice sequence counter.
// The increment and read happen in one UPDATE ... RETURNING statement, so
// concurrent calls can never observe the same value even across instances.
func (r *GormOrganizationRepository) NextInvoiceNumber(ctx context.Context, orgID uuid.UUID) (int64, string, error) {
	var org organization.Organization
	result := r.db.WithContext(ctx).
		Model(&org).
		Clauses(clause.Returning{Columns: []clause.Column{
			{Name: "invoice_next_number"},
			{Name: "invoice_prefix"},
		}}).
		Where("id = ?", orgID).
		UpdateColumn("invoice_next_number", gorm.Expr("invoice_next_number + 1"))

	if result.Error != nil {
		return 0, "", result.Error
	}
	if result.RowsAffected == 0 {
		return 0, "", shared.ErrNotFound
	}

	// The returned value is the counter after the increment; the allocated
	// sequence is the value before it.
	allocated := org.InvoiceNextNumber - 1
	return allocated, organization.FormatInvoiceNumber(org.InvoicePrefix, allocated), nil
}

// Ensure GormOrganizationRepository implements organization.Repository
var _ organization.Repository = (*GormOrganizationRepository)(nil)
