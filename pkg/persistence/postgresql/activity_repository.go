package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/daybookhq/daybook/pkg/models"
)

// ActivityRepository reads tool activity rows written by the ingestion
// services. The pipeline never writes activities.
type ActivityRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewActivityRepository creates an activity repository.
func NewActivityRepository(db *sql.DB, logger *slog.Logger) *ActivityRepository {
	return &ActivityRepository{
		db:     db,
		logger: logger.With("component", "activity_repository"),
	}
}

// Since returns a user's activities for one tool from the given instant
// onward, newest first.
func (r *ActivityRepository) Since(ctx context.Context, userID, tool string, since time.Time) ([]models.Activity, error) {
	query := `
		SELECT id, user_id, tool, title, description, occurred_at, cross_refs, raw
		FROM tool_activities
		WHERE user_id = $1 AND tool = $2 AND occurred_at >= $3
		ORDER BY occurred_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, tool, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities for tool %s: %w", tool, err)
	}
	defer func() { _ = rows.Close() }()

	var activities []models.Activity

	for rows.Next() {
		var (
			activity  models.Activity
			crossRefs []byte
			raw       []byte
		)

		err := rows.Scan(
			&activity.ID,
			&activity.UserID,
			&activity.Tool,
			&activity.Title,
			&activity.Description,
			&activity.Timestamp,
			&crossRefs,
			&raw,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}

		if err := json.Unmarshal(crossRefs, &activity.CrossRefs); err != nil {
			return nil, fmt.Errorf("failed to decode cross refs: %w", err)
		}

		if err := json.Unmarshal(raw, &activity.Raw); err != nil {
			return nil, fmt.Errorf("failed to decode raw payload: %w", err)
		}

		activity.Timestamp = activity.Timestamp.UTC()
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}

	return activities, nil
}
