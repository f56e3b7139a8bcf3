package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/invoicehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Handler processes a single domain event
type Handler func(ctx context.Context, event shared.DomainEvent) error

// InMemoryBus implements shared.EventPublisher with synchronous in-process
// dispatch. Handler failures are logged and never fail the publishing
// operation.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
}

// NewInMemoryBus creates a new in-memory event bus
func NewInMemoryBus(logger *zap.Logger) *InMemoryBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the given event types
func (b *InMemoryBus) Subscribe(handler Handler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, eventType := range eventTypes {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
}

// Publish dispatches the event to all handlers registered for its type
func (b *InMemoryBus) Publish(ctx context.Context, event shared.DomainEvent) error {
	b.mu.RLock()
	handlers := b.handlers[event.EventType()]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := b.dispatch(ctx, handler, event); err != nil {
			b.logger.Error("event handler failed",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.String("organization_id", event.OrganizationID().String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// dispatch runs one handler with panic recovery
func (b *InMemoryBus) dispatch(ctx context.Context, handler Handler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler(ctx, event)
}

// Ensure InMemoryBus implements EventPublisher
var _ shared.EventPublisher = (*InMemoryBus)(nil)
