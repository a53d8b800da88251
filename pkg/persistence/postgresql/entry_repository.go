package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/daybookhq/daybook/pkg/models"
	"github.com/daybookhq/daybook/pkg/persistence"
)

// EntryRepository creates draft journal entry rows.
type EntryRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewEntryRepository creates an entry repository.
func NewEntryRepository(db *sql.DB, logger *slog.Logger) *EntryRepository {
	return &EntryRepository{
		db:     db,
		logger: logger.With("component", "entry_repository"),
	}
}

// Create inserts a draft entry. Generated entries are always unpublished.
func (r *EntryRepository) Create(ctx context.Context, entry *models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (
			id, workspace_id, user_id, title, description, body,
			category, tags, published, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	tags, err := json.Marshal(entry.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode entry tags: %w", err)
	}

	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode entry metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		entry.WorkspaceID,
		entry.UserID,
		entry.Title,
		entry.Description,
		entry.Body,
		entry.Category,
		tags,
		entry.Published,
		metadata,
		entry.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("failed to create entry %s: %w", entry.ID, persistence.ErrEntryExists)
		}

		return fmt.Errorf("failed to create entry %s: %w", entry.ID, err)
	}

	r.logger.DebugContext(ctx, "Entry created", "entry_id", entry.ID, "workspace_id", entry.WorkspaceID)

	return nil
}
