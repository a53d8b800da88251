package cmd

import (
	"context"
	"log/slog"

	"github.com/daybookhq/daybook/pkg/connections"
)

// NewConnectionStore creates the tool-connection registry client. An empty
// URL yields a static store with no connections, which reports every
// selected tool as missing; that is only useful for local experiments.
func NewConnectionStore(ctx context.Context, logger *slog.Logger, redisURL string) (connections.ConnectionStore, error) {
	if redisURL == "" {
		logger.Warn("No connection registry configured, using empty static store")

		return connections.NewStaticStore(nil), nil
	}

	return connections.NewRedisStore(ctx, logger, redisURL)
}
