package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/partner"
	"github.com/invoicehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormClientRepository implements partner.Repository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByIDForOrg finds a client by ID within the organization
func (r *GormClientRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*partner.Client, error) {
	var client partner.Client
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindByEmail finds a client by email within the organization
func (r *GormClientRepository) FindByEmail(ctx context.Context, orgID uuid.UUID, email string) (*partner.Client, error) {
	var client partner.Client
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND email = ?", orgID, strings.ToLower(email)).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindAllForOrg returns a filtered, paginated client listing
func (r *GormClientRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[partner.Client], error) {
	base := r.db.WithContext(ctx).Model(&partner.Client{}).Where("organization_id = ?", orgID)
	base = r.applyFilters(base, filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[partner.Client]{}, err
	}

	query := r.applyOrdering(base.Session(&gorm.Session{}), filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var clients []partner.Client
	if err := query.Find(&clients).Error; err != nil {
		return shared.Paginated[partner.Client]{}, err
	}

	return shared.NewPaginated(clients, total, filter.Page, filter.PageSize), nil
}

// FindActive returns all active clients ordered by name
func (r *GormClientRepository) FindActive(ctx context.Context, orgID uuid.UUID) ([]partner.Client, error) {
	var clients []partner.Client
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND is_active = ?", orgID, true).
		Order("name ASC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// FindByIDs finds multiple clients by their IDs
func (r *GormClientRepository) FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]partner.Client, error) {
	if len(ids) == 0 {
		return []partner.Client{}, nil
	}
	var clients []partner.Client
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", orgID, ids).
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// ExistsByEmail checks whether the email is already taken in the organization
func (r *GormClientRepository) ExistsByEmail(ctx context.Context, orgID uuid.UUID, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Client{}).
		Where("organization_id = ? AND email = ?", orgID, strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountActive counts active clients in the organization
func (r *GormClientRepository) CountActive(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Client{}).
		Where("organization_id = ? AND is_active = ?", orgID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// DeleteForOrg removes a client
func (r *GormClientRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Client{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormClientRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR company_name ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "country":
			query = query.Where("country = ?", value)
		case "currency":
			query = query.Where("currency = ?", value)
		}
	}

	return query
}

var clientSortColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"company_name": true,
	"email":        true,
}

func (r *GormClientRepository) applyOrdering(query *gorm.DB, filter shared.Filter) *gorm.DB {
	column := "name"
	if clientSortColumns[filter.OrderBy] {
		column = filter.OrderBy
	}
	direction := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		direction = "DESC"
	}
	return query.Order(column + " " + direction)
}

// Ensure GormClientRepository implements partner.Repository
var _ partner.Repository = (*GormClientRepository)(nil)
