// Package notify emits processing-outcome notifications. Every outcome is
// persisted as a notification record and published as an event for
// downstream delivery.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/daybookhq/daybook/pkg/eventbus"
	"github.com/daybookhq/daybook/pkg/events"
	"github.com/daybookhq/daybook/pkg/models"
	"github.com/daybookhq/daybook/pkg/persistence"
)

// Notifier is the pipeline's notification sink.
type Notifier struct {
	store  persistence.NotificationStore
	bus    eventbus.EventBus
	logger *slog.Logger
}

// NewNotifier creates a notifier writing to the given store and bus.
func NewNotifier(store persistence.NotificationStore, bus eventbus.EventBus, logger *slog.Logger) *Notifier {
	return &Notifier{
		store:  store,
		bus:    bus,
		logger: logger.With("module", "notifier"),
	}
}

// EntryReady reports a generated draft entry.
func (n *Notifier) EntryReady(ctx context.Context, subscription *models.Subscription, entry *models.JournalEntry) error {
	notification := models.NewNotification(
		subscription.UserID,
		models.NotificationEntryReady,
		"Your journal draft is ready",
		fmt.Sprintf("A draft entry %q was generated in %s.", entry.Title, workspaceName(subscription)),
	)
	notification.RefKind = models.RefEntry
	notification.RefID = entry.ID
	notification.Payload["subtype"] = string(models.NotificationEntryReady)
	notification.Payload["entry_id"] = entry.ID

	event := events.EntryReady{
		BaseEvent:  events.NewBaseEvent(events.EntryReadyEvent, subscription.UserID, subscription.ID, subscription.WorkspaceID),
		EntryID:    entry.ID,
		EntryTitle: entry.Title,
	}

	return n.emit(ctx, notification, event)
}

// NoActivity reports a skipped pass: no entry was created, the schedule
// still advanced.
func (n *Notifier) NoActivity(ctx context.Context, subscription *models.Subscription, periodStart, periodEnd time.Time) error {
	notification := models.NewNotification(
		subscription.UserID,
		models.NotificationNoActivity,
		"No activity found",
		fmt.Sprintf("No tool activity was found for %s, so no draft was generated this period.", workspaceName(subscription)),
	)
	notification.RefKind = models.RefWorkspace
	notification.RefID = subscription.WorkspaceID
	notification.Payload["subtype"] = string(models.NotificationNoActivity)

	event := events.NoActivity{
		BaseEvent:   events.NewBaseEvent(events.NoActivityEvent, subscription.UserID, subscription.ID, subscription.WorkspaceID),
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	return n.emit(ctx, notification, event)
}

// GenerationFailed reports a failed synthesis or persistence pass.
func (n *Notifier) GenerationFailed(ctx context.Context, subscription *models.Subscription, cause error) error {
	notification := models.NewNotification(
		subscription.UserID,
		models.NotificationGenerationFailed,
		"Journal generation failed",
		fmt.Sprintf("We could not generate your draft for %s. It will be attempted again at the next scheduled time.", workspaceName(subscription)),
	)
	notification.RefKind = models.RefWorkspace
	notification.RefID = subscription.WorkspaceID
	notification.Payload["subtype"] = string(models.NotificationGenerationFailed)

	event := events.GenerationFailed{
		BaseEvent: events.NewBaseEvent(events.GenerationFailedEvent, subscription.UserID, subscription.ID, subscription.WorkspaceID),
		Error:     cause.Error(),
	}

	return n.emit(ctx, notification, event)
}

// MissingTools reports selected tools without an active connection. It may
// co-occur with EntryReady.
func (n *Notifier) MissingTools(ctx context.Context, subscription *models.Subscription, tools []string) error {
	notification := models.NewNotification(
		subscription.UserID,
		models.NotificationMissingTools,
		"Some tools are not connected",
		fmt.Sprintf("The following tools are selected but not connected: %s.", strings.Join(tools, ", ")),
	)
	notification.RefKind = models.RefWorkspace
	notification.RefID = subscription.WorkspaceID
	notification.Payload["subtype"] = string(models.NotificationMissingTools)
	notification.Payload["missing_tools"] = tools

	event := events.MissingTools{
		BaseEvent: events.NewBaseEvent(events.MissingToolsEvent, subscription.UserID, subscription.ID, subscription.WorkspaceID),
		Tools:     tools,
	}

	return n.emit(ctx, notification, event)
}

// emit persists the record and publishes the event. A store failure does not
// prevent the publish attempt.
func (n *Notifier) emit(ctx context.Context, notification *models.Notification, event eventbus.Event) error {
	storeErr := n.store.CreateNotification(ctx, notification)
	if storeErr != nil {
		n.logger.ErrorContext(ctx, "Failed to persist notification",
			"notification_id", notification.ID,
			"type", notification.Type,
			"error", storeErr)
	}

	publishErr := n.bus.Publish(ctx, notification.UserID, event)
	if publishErr != nil {
		n.logger.ErrorContext(ctx, "Failed to publish notification event",
			"event_type", event.GetType(),
			"user_id", notification.UserID,
			"error", publishErr)
	}

	return errors.Join(storeErr, publishErr)
}

func workspaceName(subscription *models.Subscription) string {
	if subscription.WorkspaceName != "" {
		return subscription.WorkspaceName
	}

	return "your workspace"
}
