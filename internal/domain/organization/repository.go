package organization

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for organization persistence
type Repository interface {
	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// FindAllIDs returns the IDs of every organization, for maintenance
	// passes that sweep all tenants
	FindAllIDs(ctx context.Context) ([]uuid.UUID, error)

	// Save creates or updates an organization
	Save(ctx context.Context, org *Organization) error

	// NextInvoiceNumber atomically consumes the organization's invoice
	// sequence counter and returns the allocated value together with its
	// formatted invoice number. The increment and the read must be a single
	// operation against the store; two concurrent calls for the same
	// organization must never observe the same value. Returns
	// shared.ErrNotFound when the organization does not exist.
	NextInvoiceNumber(ctx context.Context, orgID uuid.UUID) (int64, string, error)
}
