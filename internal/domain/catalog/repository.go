package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	// FindByIDForOrg returns a product by ID within the organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Product, error)

	// FindBySKU returns a product by its organization-unique SKU
	FindBySKU(ctx context.Context, orgID uuid.UUID, sku string) (*Product, error)

	// FindAllForOrg returns a filtered, paginated product listing
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[Product], error)

	// FindActive returns all active products ordered by name
	FindActive(ctx context.Context, orgID uuid.UUID) ([]Product, error)

	// ExistsBySKU checks whether a SKU is already taken within the
	// organization
	ExistsBySKU(ctx context.Context, orgID uuid.UUID, sku string) (bool, error)

	// Save persists a new or updated product
	Save(ctx context.Context, product *Product) error

	// DeleteForOrg removes a product
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error
}

// TaxRateRepository defines the persistence interface for tax rates
type TaxRateRepository interface {
	// FindByIDForOrg returns a tax rate by ID within the organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*TaxRate, error)

	// FindAllForOrg returns all tax rates for the organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID) ([]TaxRate, error)

	// FindDefault returns the organization's default tax rate, or
	// shared.ErrNotFound when none is flagged
	FindDefault(ctx context.Context, orgID uuid.UUID) (*TaxRate, error)

	// Save persists a new or updated tax rate
	Save(ctx context.Context, rate *TaxRate) error

	// SetDefault flags one rate as the default and clears the flag on all
	// others in a single transaction
	SetDefault(ctx context.Context, orgID, id uuid.UUID) error

	// DeleteForOrg removes a tax rate
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error
}
