package event

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared"
)

// StatsInvalidator is the slice of the stats cache the event handlers need
type StatsInvalidator interface {
	InvalidateDashboardStats(ctx context.Context, orgID uuid.UUID) error
}

// StatsInvalidationHandler returns a handler that drops the cached dashboard
// stats for the organization the event belongs to. Subscribed to the invoice
// lifecycle events so the dashboard never serves stale aggregates longer than
// one cache TTL after a write.
func StatsInvalidationHandler(cache StatsInvalidator) Handler {
	return func(ctx context.Context, event shared.DomainEvent) error {
		return cache.InvalidateDashboardStats(ctx, event.OrganizationID())
	}
}
