// Package events defines the notification events the pipeline publishes for
// downstream delivery (in-app feeds, email digests).
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic is the bus topic notification events are published on.
const Topic = "daybook.notifications"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// EntryReadyEvent reports a generated draft entry.
	EntryReadyEvent EventType = "notification.entry_ready"

	// NoActivityEvent reports a skipped pass with no source activity.
	NoActivityEvent EventType = "notification.no_activity"

	// GenerationFailedEvent reports a failed synthesis or persistence pass.
	GenerationFailedEvent EventType = "notification.generation_failed"

	// MissingToolsEvent reports selected tools without an active connection.
	MissingToolsEvent EventType = "notification.missing_tools"
)

type BaseEvent struct {
	ID             string         `json:"id"`
	Type           EventType      `json:"type"`
	Timestamp      time.Time      `json:"timestamp"`
	UserID         string         `json:"user_id"`
	SubscriptionID string         `json:"subscription_id"`
	WorkspaceID    string         `json:"workspace_id"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps the common fields for a notification event.
func NewBaseEvent(eventType EventType, userID, subscriptionID, workspaceID string) BaseEvent {
	return BaseEvent{
		ID:             uuid.New().String(),
		Type:           eventType,
		Timestamp:      time.Now().UTC(),
		UserID:         userID,
		SubscriptionID: subscriptionID,
		WorkspaceID:    workspaceID,
	}
}

type EntryReady struct {
	BaseEvent

	EntryID    string `json:"entry_id"`
	EntryTitle string `json:"entry_title"`
}

func (e EntryReady) GetType() EventType {
	return EntryReadyEvent
}

type NoActivity struct {
	BaseEvent

	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

func (e NoActivity) GetType() EventType {
	return NoActivityEvent
}

type GenerationFailed struct {
	BaseEvent

	Error string `json:"error"`
}

func (e GenerationFailed) GetType() EventType {
	return GenerationFailedEvent
}

type MissingTools struct {
	BaseEvent

	Tools []string `json:"tools"`
}

func (e MissingTools) GetType() EventType {
	return MissingToolsEvent
}
