package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/daybookhq/daybook/pkg/models"
	"github.com/daybookhq/daybook/pkg/otelhelper"
	"github.com/daybookhq/daybook/pkg/persistence"
)

// Driver runs one scheduler tick: it selects the subscriptions whose due
// time arrived within the due window and processes them sequentially.
//
// The driver is stateless; the service loop owns the timer and passes the
// tick instant in. It is not reentrant-safe: overlapping ticks could
// double-process a subscription whose window has not yet closed.
type Driver struct {
	id            string
	subscriptions persistence.SubscriptionStore
	processor     *Processor
	logger        *slog.Logger
	tracer        trace.Tracer
}

// NewDriver creates a scheduler driver.
func NewDriver(id string, subscriptions persistence.SubscriptionStore, processor *Processor, logger *slog.Logger) *Driver {
	return &Driver{
		id:            id,
		subscriptions: subscriptions,
		processor:     processor,
		logger:        logger.With("module", "driver", "driver_id", id),
		tracer:        otel.Tracer("daybook/scheduler"),
	}
}

// RunTick processes every subscription due at the given instant. A failure
// fetching the due list is fatal to this tick and left to the next tick to
// retry; a failure inside one subscription's pass never aborts the rest of
// the batch.
func (d *Driver) RunTick(ctx context.Context, now time.Time) error {
	ctx, span := otelhelper.StartSpan(ctx, d.tracer, "scheduler.tick",
		attribute.String(otelhelper.ServiceIDKey, d.id))
	defer span.End()

	due, err := d.subscriptions.DueSubscriptions(ctx, now)
	if err != nil {
		otelhelper.SetError(span, err)

		return fmt.Errorf("failed to fetch due subscriptions: %w", err)
	}

	if len(due) == 0 {
		return nil
	}

	d.logger.InfoContext(ctx, "Processing due subscriptions", "count", len(due))

	for _, subscription := range due {
		d.processIsolated(ctx, subscription, now)
	}

	return nil
}

// processIsolated shields the batch loop from anything a single
// subscription's pass might do, including panics that slipped past the
// processor boundary.
func (d *Driver) processIsolated(ctx context.Context, subscription *models.Subscription, now time.Time) {
	defer func() {
		if recovered := recover(); recovered != nil {
			d.logger.ErrorContext(ctx, "Panic while processing subscription",
				"subscription_id", subscription.ID,
				"panic", recovered)
		}
	}()

	d.processor.Process(ctx, subscription, now)
}
