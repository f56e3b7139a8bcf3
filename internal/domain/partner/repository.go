package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared"
)

// Repository defines the persistence interface for clients.
// All operations are scoped to one organization.
type Repository interface {
	// FindByIDForOrg returns a client by ID within the organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Client, error)

	// FindByEmail returns a client by its organization-unique email
	FindByEmail(ctx context.Context, orgID uuid.UUID, email string) (*Client, error)

	// FindAllForOrg returns a filtered, paginated client listing
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[Client], error)

	// FindActive returns all active clients ordered by name
	FindActive(ctx context.Context, orgID uuid.UUID) ([]Client, error)

	// FindByIDs returns the clients matching the given IDs, for listing
	// enrichment
	FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]Client, error)

	// ExistsByEmail checks whether an email is already taken within the
	// organization
	ExistsByEmail(ctx context.Context, orgID uuid.UUID, email string) (bool, error)

	// CountActive returns the number of active clients
	CountActive(ctx context.Context, orgID uuid.UUID) (int64, error)

	// Save persists a new or updated client
	Save(ctx context.Context, client *Client) error

	// DeleteForOrg removes a client
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error
}
