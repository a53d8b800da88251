// Package postgresql provides the PostgreSQL persistence implementation for
// subscriptions, activities, entries and notifications.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/daybookhq/daybook/pkg/models"
	"github.com/daybookhq/daybook/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db               *sql.DB
	logger           *slog.Logger
	subscriptionRepo *SubscriptionRepository
	activityRepo     *ActivityRepository
	entryRepo        *EntryRepository
	notificationRepo *NotificationRepository
}

// NewPersistence creates a new PostgreSQL persistence layer and runs pending
// migrations.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:               database,
		logger:           logger,
		subscriptionRepo: NewSubscriptionRepository(database, logger),
		activityRepo:     NewActivityRepository(database, logger),
		entryRepo:        NewEntryRepository(database, logger),
		notificationRepo: NewNotificationRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(ctx context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// SaveSubscription inserts or updates a subscription.
func (p *Persistence) SaveSubscription(ctx context.Context, subscription *models.Subscription) error {
	return p.subscriptionRepo.Save(ctx, subscription)
}

// SubscriptionByID returns a subscription by its id.
func (p *Persistence) SubscriptionByID(ctx context.Context, id string) (*models.Subscription, error) {
	return p.subscriptionRepo.GetByID(ctx, id)
}

// SubscriptionByUserWorkspace returns the subscription for a (user, workspace) pair.
func (p *Persistence) SubscriptionByUserWorkspace(ctx context.Context, userID, workspaceID string) (*models.Subscription, error) {
	return p.subscriptionRepo.GetByUserWorkspace(ctx, userID, workspaceID)
}

// DeleteSubscription removes a subscription.
func (p *Persistence) DeleteSubscription(ctx context.Context, id string) error {
	return p.subscriptionRepo.Delete(ctx, id)
}

// DueSubscriptions returns active subscriptions due within the due window.
func (p *Persistence) DueSubscriptions(ctx context.Context, now time.Time) ([]*models.Subscription, error) {
	return p.subscriptionRepo.Due(ctx, now)
}

// StaleSubscriptions returns active subscriptions that fell behind the due window.
func (p *Persistence) StaleSubscriptions(ctx context.Context, now time.Time) ([]*models.Subscription, error) {
	return p.subscriptionRepo.Stale(ctx, now)
}

// ActivitiesSince returns a user's activities for one tool since the given instant.
func (p *Persistence) ActivitiesSince(ctx context.Context, userID, tool string, since time.Time) ([]models.Activity, error) {
	return p.activityRepo.Since(ctx, userID, tool, since)
}

// CreateEntry persists a draft journal entry.
func (p *Persistence) CreateEntry(ctx context.Context, entry *models.JournalEntry) error {
	return p.entryRepo.Create(ctx, entry)
}

// CreateNotification persists a notification record.
func (p *Persistence) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return p.notificationRepo.Create(ctx, notification)
}
