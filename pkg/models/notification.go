package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies the outcome a notification reports.
type NotificationType string

const (
	// NotificationEntryReady reports a generated draft entry
	NotificationEntryReady NotificationType = "entry_ready"

	// NotificationNoActivity reports a skipped pass with no source activity
	NotificationNoActivity NotificationType = "no_activity"

	// NotificationGenerationFailed reports a failed synthesis or persistence
	NotificationGenerationFailed NotificationType = "generation_failed"

	// NotificationMissingTools reports selected tools without an active connection
	NotificationMissingTools NotificationType = "missing_tools"
)

// Reference kinds for the entity a notification points at.
const (
	RefEntry     = "entry"
	RefWorkspace = "workspace"
)

// Notification is a user-facing record of a processing outcome. Notifications
// are the sole feedback channel of the pipeline; there is no synchronous error
// surface.
type Notification struct {
	// ID uniquely identifies this notification
	ID string `json:"id" validate:"required"`

	// UserID is the addressed user
	UserID string `json:"user_id" validate:"required"`

	// Type classifies the reported outcome
	Type NotificationType `json:"type" validate:"required"`

	// Title is a short human-readable headline
	Title string `json:"title"`

	// Message is the human-readable body
	Message string `json:"message"`

	// RefKind and RefID point at the related entity (entry or workspace)
	RefKind string `json:"ref_kind,omitempty"`
	RefID   string `json:"ref_id,omitempty"`

	// Payload carries structured data: subtype, entry id, missing-tool list
	Payload map[string]any `json:"payload,omitempty"`

	// CreatedAt timestamp when this notification was created
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification creates a notification addressed to the given user.
func NewNotification(userID string, kind NotificationType, title, message string) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Payload:   make(map[string]any),
		CreatedAt: time.Now().UTC(),
	}
}
