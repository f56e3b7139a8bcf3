package partner

import (
	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeClient = "Client"

// Event type constants
const (
	EventTypeClientCreated     = "ClientCreated"
	EventTypeClientDeactivated = "ClientDeactivated"
)

// ClientCreatedEvent is raised when a new client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(client *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, client.ID, AggregateTypeClient, client.OrganizationID),
		ClientID:        client.ID,
		Name:            client.Name,
		Email:           client.Email,
	}
}

// EventType returns the event type name
func (e *ClientCreatedEvent) EventType() string {
	return EventTypeClientCreated
}
