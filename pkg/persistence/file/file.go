// Package file provides file-based persistence for local development and
// tests. Every record is one JSON document under the root directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/daybookhq/daybook/pkg/models"
	"github.com/daybookhq/daybook/pkg/persistence"
)

const (
	subscriptionsDir = "subscriptions"
	activitiesDir    = "activities"
	entriesDir       = "entries"
	notificationsDir = "notifications"
)

// Persistence implements persistence.Persistence on the file system.
type Persistence struct {
	root string
	mu   sync.RWMutex
}

// NewPersistence creates a file persistence layer rooted at the given
// directory, creating the layout if needed.
func NewPersistence(root string) (*Persistence, error) {
	root = strings.TrimPrefix(root, "file://")

	for _, dir := range []string{subscriptionsDir, activitiesDir, entriesDir, notificationsDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create persistence directory %s: %w", dir, err)
		}
	}

	return &Persistence{root: root}, nil
}

// Close performs any necessary cleanup. For file-based persistence there is
// nothing to clean up.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// SaveSubscription writes a subscription document, enforcing the one
// subscription per (user, workspace) invariant.
func (p *Persistence) SaveSubscription(_ context.Context, subscription *models.Subscription) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	existing, err := p.loadSubscriptions()
	if err != nil {
		return persistence.NewSubscriptionError("Save", subscription.ID, err)
	}

	for _, other := range existing {
		if other.ID != subscription.ID &&
			other.UserID == subscription.UserID &&
			other.WorkspaceID == subscription.WorkspaceID {
			return persistence.NewSubscriptionError("Save", subscription.ID, persistence.ErrSubscriptionExists)
		}
	}

	if subscription.CreatedAt.IsZero() {
		subscription.CreatedAt = time.Now().UTC()
	}

	subscription.UpdatedAt = time.Now().UTC()

	return p.write(filepath.Join(subscriptionsDir, subscription.ID+".json"), subscription)
}

// SubscriptionByID reads one subscription document.
func (p *Persistence) SubscriptionByID(_ context.Context, id string) (*models.Subscription, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var subscription models.Subscription
	if err := p.read(filepath.Join(subscriptionsDir, id+".json"), &subscription); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.NewSubscriptionError("GetByID", id, persistence.ErrSubscriptionNotFound)
		}

		return nil, persistence.NewSubscriptionError("GetByID", id, err)
	}

	return &subscription, nil
}

// SubscriptionByUserWorkspace finds the subscription for a (user, workspace) pair.
func (p *Persistence) SubscriptionByUserWorkspace(_ context.Context, userID, workspaceID string) (*models.Subscription, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	subscriptions, err := p.loadSubscriptions()
	if err != nil {
		return nil, persistence.NewSubscriptionError("GetByUserWorkspace", "", err)
	}

	for _, subscription := range subscriptions {
		if subscription.UserID == userID && subscription.WorkspaceID == workspaceID {
			return subscription, nil
		}
	}

	return nil, persistence.NewSubscriptionError("GetByUserWorkspace", "", persistence.ErrSubscriptionNotFound)
}

// DeleteSubscription removes a subscription document.
func (p *Persistence) DeleteSubscription(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := os.Remove(filepath.Join(p.root, subscriptionsDir, id+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return persistence.NewSubscriptionError("Delete", id, persistence.ErrSubscriptionNotFound)
		}

		return persistence.NewSubscriptionError("Delete", id, err)
	}

	return nil
}

// DueSubscriptions returns active subscriptions due within the due window.
func (p *Persistence) DueSubscriptions(_ context.Context, now time.Time) ([]*models.Subscription, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	subscriptions, err := p.loadSubscriptions()
	if err != nil {
		return nil, persistence.NewSubscriptionError("Due", "", err)
	}

	floor := now.Add(-persistence.DueWindow)

	var due []*models.Subscription

	for _, subscription := range subscriptions {
		if !subscription.Active || subscription.NextRunAt == nil {
			continue
		}

		if !subscription.NextRunAt.After(now) && subscription.NextRunAt.After(floor) {
			due = append(due, subscription)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].NextRunAt.Before(*due[j].NextRunAt)
	})

	return due, nil
}

// StaleSubscriptions returns active subscriptions that fell behind the due window.
func (p *Persistence) StaleSubscriptions(_ context.Context, now time.Time) ([]*models.Subscription, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	subscriptions, err := p.loadSubscriptions()
	if err != nil {
		return nil, persistence.NewSubscriptionError("Stale", "", err)
	}

	floor := now.Add(-persistence.DueWindow)

	var stale []*models.Subscription

	for _, subscription := range subscriptions {
		if !subscription.Active || subscription.NextRunAt == nil {
			continue
		}

		if !subscription.NextRunAt.After(floor) {
			stale = append(stale, subscription)
		}
	}

	sort.Slice(stale, func(i, j int) bool {
		return stale[i].NextRunAt.Before(*stale[j].NextRunAt)
	})

	return stale, nil
}

// SaveActivity writes an activity document. The pipeline itself never calls
// this; it exists so local development and tests can seed activity data.
func (p *Persistence) SaveActivity(_ context.Context, activity *models.Activity) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.write(filepath.Join(activitiesDir, activity.ID+".json"), activity)
}

// ActivitiesSince returns a user's activities for one tool since the given
// instant, newest first.
func (p *Persistence) ActivitiesSince(_ context.Context, userID, tool string, since time.Time) ([]models.Activity, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	paths, err := filepath.Glob(filepath.Join(p.root, activitiesDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	var activities []models.Activity

	for _, path := range paths {
		var activity models.Activity
		if err := p.readPath(path, &activity); err != nil {
			return nil, err
		}

		if activity.UserID == userID && activity.Tool == tool && !activity.Timestamp.Before(since) {
			activities = append(activities, activity)
		}
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})

	return activities, nil
}

// CreateEntry writes a draft entry document.
func (p *Persistence) CreateEntry(_ context.Context, entry *models.JournalEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	path := filepath.Join(p.root, entriesDir, entry.ID+".json")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("failed to create entry %s: %w", entry.ID, persistence.ErrEntryExists)
	}

	return p.write(filepath.Join(entriesDir, entry.ID+".json"), entry)
}

// CreateNotification writes a notification document.
func (p *Persistence) CreateNotification(_ context.Context, notification *models.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.write(filepath.Join(notificationsDir, notification.ID+".json"), notification)
}

func (p *Persistence) loadSubscriptions() ([]*models.Subscription, error) {
	paths, err := filepath.Glob(filepath.Join(p.root, subscriptionsDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subscriptions := make([]*models.Subscription, 0, len(paths))

	for _, path := range paths {
		var subscription models.Subscription
		if err := p.readPath(path, &subscription); err != nil {
			return nil, err
		}

		subscriptions = append(subscriptions, &subscription)
	}

	return subscriptions, nil
}

func (p *Persistence) write(relative string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", relative, err)
	}

	path := filepath.Join(p.root, relative)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", relative, err)
	}

	return nil
}

func (p *Persistence) read(relative string, value any) error {
	return p.readPath(filepath.Join(p.root, relative), value)
}

func (p *Persistence) readPath(path string, value any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.ErrNotExist
		}

		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, value); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return nil
}
