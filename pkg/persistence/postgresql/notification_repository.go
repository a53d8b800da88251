package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/daybookhq/daybook/pkg/models"
)

// NotificationRepository creates notification rows.
type NotificationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewNotificationRepository creates a notification repository.
func NewNotificationRepository(db *sql.DB, logger *slog.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger.With("component", "notification_repository"),
	}
}

// Create inserts a notification record.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (
			id, user_id, type, title, message, ref_kind, ref_id, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	payload, err := json.Marshal(notification.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode notification payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		string(notification.Type),
		notification.Title,
		notification.Message,
		notification.RefKind,
		notification.RefID,
		payload,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification %s: %w", notification.ID, err)
	}

	r.logger.DebugContext(ctx, "Notification created",
		"notification_id", notification.ID,
		"type", notification.Type,
		"user_id", notification.UserID)

	return nil
}
