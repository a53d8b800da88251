// Package eventbus provides the event publication infrastructure for
// notification delivery.
package eventbus

import (
	"context"

	"github.com/daybookhq/daybook/pkg/events"
)

// Event is any payload that can travel over the bus. The type tag selects
// the topic and the subscriber-side handler.
type Event interface {
	GetType() events.EventType
}

// EventHandler consumes one decoded event. Returning an error nacks the
// message so the channel can redeliver it.
type EventHandler func(ctx context.Context, event any) error

// EventPublisher emits events. The key carries the user ID so a partitioned
// channel keeps per-user notification order.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// EventSubscriber registers handlers by event type and then consumes until
// the context is cancelled.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventBus is the full bus contract used by the scheduler and admin
// processes.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
