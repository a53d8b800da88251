// Package persistence provides the data storage abstraction layer for
// subscriptions, activities, entries and notifications.
package persistence

import (
	"context"
	"time"

	"github.com/daybookhq/daybook/pkg/models"
)

// DueWindow bounds how far into the past a subscription's next-run instant
// may fall and still be selected for processing. Subscriptions due before
// the window are intentionally not reprocessed automatically; they require
// administrative replay.
const DueWindow = 30 * time.Minute

// SubscriptionStore manages subscription records, including the due-window
// query the scheduler driver runs every tick.
type SubscriptionStore interface {
	SaveSubscription(ctx context.Context, subscription *models.Subscription) error
	SubscriptionByID(ctx context.Context, id string) (*models.Subscription, error)
	SubscriptionByUserWorkspace(ctx context.Context, userID, workspaceID string) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error

	// DueSubscriptions returns active subscriptions whose NextRunAt satisfies
	// now-DueWindow < NextRunAt <= now.
	DueSubscriptions(ctx context.Context, now time.Time) ([]*models.Subscription, error)

	// StaleSubscriptions returns active subscriptions whose NextRunAt fell
	// behind the due window, i.e. NextRunAt <= now-DueWindow. These are the
	// candidates for administrative replay.
	StaleSubscriptions(ctx context.Context, now time.Time) ([]*models.Subscription, error)
}

// ActivityStore reads activity records written by the ingestion services.
type ActivityStore interface {
	// ActivitiesSince returns a user's activities for one tool from the
	// lookback start instant onward, ordered by timestamp descending.
	ActivitiesSince(ctx context.Context, userID, tool string, since time.Time) ([]models.Activity, error)
}

// EntryStore creates draft journal entries.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry *models.JournalEntry) error
}

// NotificationStore creates notification records.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
}

// Persistence aggregates every store the pipeline touches plus lifecycle
// management.
type Persistence interface {
	SubscriptionStore
	ActivityStore
	EntryStore
	NotificationStore

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
