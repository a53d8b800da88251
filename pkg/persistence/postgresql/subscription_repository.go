package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/daybookhq/daybook/pkg/models"
	"github.com/daybookhq/daybook/pkg/persistence"
)

const uniqueViolation = "23505"

const subscriptionColumns = `
	id, user_id, workspace_id, workspace_name, workspace_active, active,
	frequency, weekdays, generation_hour, generation_minute, timezone,
	tools, focus_prompt, default_category, default_tags, framework_id,
	grouping_method, last_run_at, next_run_at, created_at, updated_at
`

// SubscriptionRepository handles subscription rows.
type SubscriptionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSubscriptionRepository creates a subscription repository.
func NewSubscriptionRepository(db *sql.DB, logger *slog.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{
		db:     db,
		logger: logger.With("component", "subscription_repository"),
	}
}

// Save inserts or updates a subscription.
func (r *SubscriptionRepository) Save(ctx context.Context, subscription *models.Subscription) error {
	query := `
		INSERT INTO journal_subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id)
		DO UPDATE SET
			workspace_name = EXCLUDED.workspace_name,
			workspace_active = EXCLUDED.workspace_active,
			active = EXCLUDED.active,
			frequency = EXCLUDED.frequency,
			weekdays = EXCLUDED.weekdays,
			generation_hour = EXCLUDED.generation_hour,
			generation_minute = EXCLUDED.generation_minute,
			timezone = EXCLUDED.timezone,
			tools = EXCLUDED.tools,
			focus_prompt = EXCLUDED.focus_prompt,
			default_category = EXCLUDED.default_category,
			default_tags = EXCLUDED.default_tags,
			framework_id = EXCLUDED.framework_id,
			grouping_method = EXCLUDED.grouping_method,
			last_run_at = EXCLUDED.last_run_at,
			next_run_at = EXCLUDED.next_run_at,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()
	if subscription.CreatedAt.IsZero() {
		subscription.CreatedAt = now
	}

	subscription.UpdatedAt = now

	weekdays, err := json.Marshal(subscription.Weekdays)
	if err != nil {
		return persistence.NewSubscriptionError("Save", subscription.ID, err)
	}

	tools, err := json.Marshal(subscription.Tools)
	if err != nil {
		return persistence.NewSubscriptionError("Save", subscription.ID, err)
	}

	tags, err := json.Marshal(subscription.DefaultTags)
	if err != nil {
		return persistence.NewSubscriptionError("Save", subscription.ID, err)
	}

	_, err = r.db.ExecContext(ctx, query,
		subscription.ID,
		subscription.UserID,
		subscription.WorkspaceID,
		subscription.WorkspaceName,
		subscription.WorkspaceActive,
		subscription.Active,
		string(subscription.Frequency),
		weekdays,
		subscription.TimeOfDay.Hour,
		subscription.TimeOfDay.Minute,
		subscription.Timezone,
		tools,
		subscription.FocusPrompt,
		subscription.DefaultCategory,
		tags,
		subscription.FrameworkID,
		string(subscription.GroupingMethod),
		subscription.LastRunAt,
		subscription.NextRunAt,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return persistence.NewSubscriptionError("Save", subscription.ID, persistence.ErrSubscriptionExists)
		}

		return persistence.NewSubscriptionError("Save", subscription.ID, err)
	}

	r.logger.DebugContext(ctx, "Subscription saved",
		"subscription_id", subscription.ID,
		"next_run_at", subscription.NextRunAt)

	return nil
}

// GetByID retrieves a subscription by its id.
func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM journal_subscriptions WHERE id = $1`

	subscription, err := scanSubscription(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewSubscriptionError("GetByID", id, persistence.ErrSubscriptionNotFound)
		}

		return nil, persistence.NewSubscriptionError("GetByID", id, err)
	}

	return subscription, nil
}

// GetByUserWorkspace retrieves the one subscription for a (user, workspace) pair.
func (r *SubscriptionRepository) GetByUserWorkspace(ctx context.Context, userID, workspaceID string) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM journal_subscriptions WHERE user_id = $1 AND workspace_id = $2`

	subscription, err := scanSubscription(r.db.QueryRowContext(ctx, query, userID, workspaceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewSubscriptionError("GetByUserWorkspace", "", persistence.ErrSubscriptionNotFound)
		}

		return nil, persistence.NewSubscriptionError("GetByUserWorkspace", "", err)
	}

	return subscription, nil
}

// Delete removes a subscription row.
func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM journal_subscriptions WHERE id = $1`, id)
	if err != nil {
		return persistence.NewSubscriptionError("Delete", id, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return persistence.NewSubscriptionError("Delete", id, persistence.ErrSubscriptionNotFound)
	}

	return nil
}

// Due returns active subscriptions whose next run falls inside the due
// window: next_run_at <= now and next_run_at > now - window.
func (r *SubscriptionRepository) Due(ctx context.Context, now time.Time) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM journal_subscriptions
		WHERE active = TRUE
		  AND next_run_at IS NOT NULL
		  AND next_run_at <= $1
		  AND next_run_at > $2
		ORDER BY next_run_at ASC
	`

	return r.querySubscriptions(ctx, "Due", query, now, now.Add(-persistence.DueWindow))
}

// Stale returns active subscriptions whose next run fell behind the due
// window. These are not processed automatically.
func (r *SubscriptionRepository) Stale(ctx context.Context, now time.Time) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM journal_subscriptions
		WHERE active = TRUE
		  AND next_run_at IS NOT NULL
		  AND next_run_at <= $1
		ORDER BY next_run_at ASC
	`

	return r.querySubscriptions(ctx, "Stale", query, now.Add(-persistence.DueWindow))
}

func (r *SubscriptionRepository) querySubscriptions(ctx context.Context, op, query string, args ...any) ([]*models.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence.NewSubscriptionError(op, "", err)
	}
	defer func() { _ = rows.Close() }()

	var subscriptions []*models.Subscription

	for rows.Next() {
		subscription, err := scanSubscription(rows)
		if err != nil {
			return nil, persistence.NewSubscriptionError(op, "", err)
		}

		subscriptions = append(subscriptions, subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, persistence.NewSubscriptionError(op, "", err)
	}

	return subscriptions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var (
		subscription models.Subscription
		frequency    string
		grouping     string
		weekdays     []byte
		tools        []byte
		tags         []byte
		lastRunAt    sql.NullTime
		nextRunAt    sql.NullTime
	)

	err := row.Scan(
		&subscription.ID,
		&subscription.UserID,
		&subscription.WorkspaceID,
		&subscription.WorkspaceName,
		&subscription.WorkspaceActive,
		&subscription.Active,
		&frequency,
		&weekdays,
		&subscription.TimeOfDay.Hour,
		&subscription.TimeOfDay.Minute,
		&subscription.Timezone,
		&tools,
		&subscription.FocusPrompt,
		&subscription.DefaultCategory,
		&tags,
		&subscription.FrameworkID,
		&grouping,
		&lastRunAt,
		&nextRunAt,
		&subscription.CreatedAt,
		&subscription.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	subscription.Frequency = models.Frequency(frequency)
	subscription.GroupingMethod = models.GroupingMethod(grouping)

	if err := json.Unmarshal(weekdays, &subscription.Weekdays); err != nil {
		return nil, fmt.Errorf("failed to decode weekdays: %w", err)
	}

	if err := json.Unmarshal(tools, &subscription.Tools); err != nil {
		return nil, fmt.Errorf("failed to decode tools: %w", err)
	}

	if err := json.Unmarshal(tags, &subscription.DefaultTags); err != nil {
		return nil, fmt.Errorf("failed to decode default tags: %w", err)
	}

	if lastRunAt.Valid {
		t := lastRunAt.Time.UTC()
		subscription.LastRunAt = &t
	}

	if nextRunAt.Valid {
		t := nextRunAt.Time.UTC()
		subscription.NextRunAt = &t
	}

	return &subscription, nil
}
