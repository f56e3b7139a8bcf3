package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/catalog"
	"github.com/invoicehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTaxRateRepository implements catalog.TaxRateRepository using GORM
type GormTaxRateRepository struct {
	db *gorm.DB
}

// NewGormTaxRateRepository creates a new GormTaxRateRepository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// FindByIDForOrg finds a tax rate by ID within the organization
func (r *GormTaxRateRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*catalog.TaxRate, error) {
	var rate catalog.TaxRate
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// FindAllForOrg returns all tax rates, default first then by name
func (r *GormTaxRateRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID) ([]catalog.TaxRate, error) {
	var rates []catalog.TaxRate
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("is_default DESC, name ASC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// FindDefault returns the organization's default tax rate
func (r *GormTaxRateRepository) FindDefault(ctx context.Context, orgID uuid.UUID) (*catalog.TaxRate, error) {
	var rate catalog.TaxRate
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND is_default = ?", orgID, true).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// Save creates or updates a tax rate
func (r *GormTaxRateRepository) Save(ctx context.Context, rate *catalog.TaxRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

// SetDefault flags one rate as the default and clears the flag on all others
// in a single transaction
func (r *GormTaxRateRepository) SetDefault(ctx context.Context, orgID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&catalog.TaxRate{}).
			Where("organization_id = ? AND is_default = ?", orgID, true).
			Update("is_default", false).Error; err != nil {
			return err
		}

		result := tx.Model(&catalog.TaxRate{}).
			Where("organization_id = ? AND id = ?", orgID, id).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// DeleteForOrg removes a tax rate
func (r *GormTaxRateRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.TaxRate{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTaxRateRepository implements catalog.TaxRateRepository
var _ catalog.TaxRateRepository = (*GormTaxRateRepository)(nil)
