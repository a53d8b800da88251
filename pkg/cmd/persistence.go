// Package cmd provides shared construction helpers for the daybook
// binaries.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/daybookhq/daybook/pkg/persistence"
	"github.com/daybookhq/daybook/pkg/persistence/file"
	"github.com/daybookhq/daybook/pkg/persistence/postgresql"
)

// NewPersistence creates the persistence layer for a database URL. Postgres
// URLs get the real database; anything else falls back to file persistence
// rooted at the given path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parseScheme(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		store, err := file.NewPersistence(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create file persistence: %w", err)
		}

		return store, nil
	}
}

func parseScheme(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")
	if len(parts) < 2 {
		return "file"
	}

	return parts[0]
}
