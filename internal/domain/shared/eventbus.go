package shared

import "context"

// EventPublisher hands events on for delivery. Services publish through the
// outbox publisher so events survive a crash after commit.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler consumes events from the bus. An error makes the outbox
// retry the entry, so handlers must tolerate redelivery.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes is the default subscription; empty subscribes to everything
	EventTypes() []string
}

type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}
