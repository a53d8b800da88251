// Package web provides the operational HTTP surface of the scheduler:
// health, stale-subscription listing and administrative replay.
package web

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/daybookhq/daybook/pkg/persistence"
	"github.com/daybookhq/daybook/pkg/scheduler"
)

// AdminHandlers serves the admin endpoints. Replay exists because the
// due-window selector deliberately ignores subscriptions that were due long
// ago; an operator pushes those through here.
type AdminHandlers struct {
	persistence persistence.Persistence
	processor   *scheduler.Processor
	logger      *slog.Logger
}

// NewAdminHandlers creates the admin handler set.
func NewAdminHandlers(p persistence.Persistence, processor *scheduler.Processor, logger *slog.Logger) *AdminHandlers {
	return &AdminHandlers{
		persistence: p,
		processor:   processor,
		logger:      logger.With("module", "admin_api"),
	}
}

// HealthCheck reports persistence health.
func (h *AdminHandlers) HealthCheck(c fiber.Ctx) error {
	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// ListStale lists active subscriptions whose due time fell behind the due
// window and therefore require replay.
func (h *AdminHandlers) ListStale(c fiber.Ctx) error {
	stale, err := h.persistence.StaleSubscriptions(c.Context(), time.Now().UTC())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"subscriptions": stale,
		"count":         len(stale),
	})
}

// ReplaySubscription runs one subscription through a full processing pass
// immediately, regardless of its due window.
func (h *AdminHandlers) ReplaySubscription(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "subscription id is required")
	}

	subscription, err := h.persistence.SubscriptionByID(c.Context(), id)
	if err != nil {
		return handleStoreError(c, err)
	}

	if !subscription.Active {
		return badRequest(c, "subscription is inactive")
	}

	now := time.Now().UTC()

	h.logger.Info("Replaying subscription",
		"subscription_id", subscription.ID,
		"next_run_at", subscription.NextRunAt)

	h.processor.Process(c.Context(), subscription, now)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"subscription_id": subscription.ID,
		"replayed_at":     now,
	})
}
