// Package scheduler contains the generation pipeline's driver loop and the
// per-subscription processor.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/daybookhq/daybook/pkg/connections"
	"github.com/daybookhq/daybook/pkg/frameworks"
	"github.com/daybookhq/daybook/pkg/grouping"
	"github.com/daybookhq/daybook/pkg/models"
	"github.com/daybookhq/daybook/pkg/notify"
	"github.com/daybookhq/daybook/pkg/otelhelper"
	"github.com/daybookhq/daybook/pkg/persistence"
	"github.com/daybookhq/daybook/pkg/recurrence"
	"github.com/daybookhq/daybook/pkg/signals"
	"github.com/daybookhq/daybook/pkg/synthesis"
)

// Processing outcomes, recorded on spans and logs only.
const (
	outcomeSkipped          = "skipped"
	outcomeNoActivity       = "no_activity"
	outcomeEntryCreated     = "entry_created"
	outcomeGenerationFailed = "generation_failed"
)

// ProcessorConfig wires the processor's collaborators.
type ProcessorConfig struct {
	Subscriptions persistence.SubscriptionStore
	Activities    persistence.ActivityStore
	Entries       persistence.EntryStore
	Connections   connections.ConnectionStore
	Notifier      *notify.Notifier
	Grouping      *grouping.Engine
	Extractor     *signals.Extractor
	Frameworks    *frameworks.Registry
	Logger        *slog.Logger

	// GenerateWhenEmpty is a testing override that synthesizes an entry even
	// when no tool produced activity.
	GenerateWhenEmpty bool
}

// Processor runs one subscription through a full generation pass: activity
// fetch, validation, grouping, signal extraction, content synthesis, entry
// persistence, notification and reschedule.
//
// Failures are contained here. Whatever happens inside a pass, the
// subscription reschedules exactly once and the error never reaches the
// driver loop.
type Processor struct {
	config ProcessorConfig
	logger *slog.Logger
	tracer trace.Tracer
}

// NewProcessor creates a subscription processor.
func NewProcessor(config ProcessorConfig) *Processor {
	return &Processor{
		config: config,
		logger: config.Logger.With("module", "processor"),
		tracer: otel.Tracer("daybook/scheduler"),
	}
}

// Process runs one full pass for a subscription and always concludes by
// advancing its schedule and stamping LastRunAt.
func (p *Processor) Process(ctx context.Context, subscription *models.Subscription, now time.Time) {
	logger := p.logger.With(
		"subscription_id", subscription.ID,
		"user_id", subscription.UserID,
		"workspace_id", subscription.WorkspaceID)

	ctx, span := otelhelper.StartSpan(ctx, p.tracer, "subscription.process",
		attribute.String(otelhelper.SubscriptionIDKey, subscription.ID),
		attribute.String(otelhelper.UserIDKey, subscription.UserID),
		attribute.String(otelhelper.WorkspaceIDKey, subscription.WorkspaceID))
	defer span.End()

	outcome, runErr := p.runProtected(ctx, subscription, now, logger)
	span.SetAttributes(attribute.String(otelhelper.OutcomeKey, outcome))

	if runErr != nil {
		otelhelper.SetError(span, runErr)
	}

	p.reschedule(ctx, subscription, now, logger)

	logger.InfoContext(ctx, "Subscription processed", "outcome", outcome)
}

// runProtected converts a panic anywhere in the pass, not just inside
// synthesis, into a failed outcome so the reschedule in Process still runs.
func (p *Processor) runProtected(ctx context.Context, subscription *models.Subscription, now time.Time, logger *slog.Logger) (outcome string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = outcomeGenerationFailed
			err = fmt.Errorf("panic while processing subscription: %v", recovered)

			logger.ErrorContext(ctx, "Recovered panic in generation pass", "panic", recovered)
		}
	}()

	return p.run(ctx, subscription, now, logger)
}

func (p *Processor) run(ctx context.Context, subscription *models.Subscription, now time.Time, logger *slog.Logger) (string, error) {
	if !subscription.WorkspaceActive {
		logger.InfoContext(ctx, "Workspace inactive, skipping generation")

		return outcomeSkipped, nil
	}

	lookbackStart := now.Add(-subscription.Frequency.Lookback())

	perTool, missing, total := p.fetchActivities(ctx, subscription, lookbackStart, logger)

	if total == 0 && !p.config.GenerateWhenEmpty {
		if err := p.config.Notifier.NoActivity(ctx, subscription, lookbackStart, now); err != nil {
			logger.ErrorContext(ctx, "Failed to emit no-activity notification", "error", err)
		}

		return outcomeNoActivity, nil
	}

	entry, err := p.generate(ctx, subscription, perTool, now)
	if err != nil {
		logger.ErrorContext(ctx, "Generation failed", "error", err)

		if notifyErr := p.config.Notifier.GenerationFailed(ctx, subscription, err); notifyErr != nil {
			logger.ErrorContext(ctx, "Failed to emit generation-failed notification", "error", notifyErr)
		}

		return outcomeGenerationFailed, err
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String(otelhelper.EntryIDKey, entry.ID))

	if err := p.config.Notifier.EntryReady(ctx, subscription, entry); err != nil {
		logger.ErrorContext(ctx, "Failed to emit entry-ready notification", "error", err)
	}

	if len(missing) > 0 {
		if err := p.config.Notifier.MissingTools(ctx, subscription, missing); err != nil {
			logger.ErrorContext(ctx, "Failed to emit missing-tools notification", "error", err)
		}
	}

	return outcomeEntryCreated, nil
}

// fetchActivities scans every selected tool. Tools without an active
// connection are reported as missing; a per-tool fetch failure degrades to
// no data for that tool rather than aborting the subscription.
func (p *Processor) fetchActivities(ctx context.Context, subscription *models.Subscription, since time.Time, logger *slog.Logger) (map[string][]models.Activity, []string, int) {
	connected, connErr := p.config.Connections.ConnectedTools(ctx, subscription.UserID)
	if connErr != nil {
		// An unavailable registry is inconclusive; attempt every tool
		// instead of reporting them all missing.
		logger.WarnContext(ctx, "Connection registry unavailable, attempting all tools", "error", connErr)
	}

	perTool := make(map[string][]models.Activity)

	var (
		missing []string
		total   int
	)

	for _, tool := range subscription.Tools {
		if connErr == nil && !connections.Connected(connected, tool) {
			missing = append(missing, tool)

			continue
		}

		activities, err := p.config.Activities.ActivitiesSince(ctx, subscription.UserID, tool, since)
		if err != nil {
			logger.WarnContext(ctx, "Activity fetch failed, degrading to no data",
				"tool", tool,
				"error", err)
			trace.SpanFromContext(ctx).AddEvent("activity fetch failed",
				trace.WithAttributes(attribute.String(otelhelper.ToolKey, tool)))

			continue
		}

		if len(activities) > 0 {
			perTool[tool] = activities
			total += len(activities)
		}
	}

	return perTool, missing, total
}

// generate synthesizes content and persists the draft entry. A panic inside
// synthesis is converted to an error so it never escapes the processor
// boundary.
func (p *Processor) generate(ctx context.Context, subscription *models.Subscription, perTool map[string][]models.Activity, now time.Time) (entry *models.JournalEntry, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			entry = nil
			err = fmt.Errorf("panic during generation: %v", recovered)
		}
	}()

	// Flatten in tool selection order; ranging over the map would reorder
	// signals and highlights between identical passes.
	var all []models.Activity
	for _, tool := range subscription.Tools {
		all = append(all, perTool[tool]...)
	}

	groups, err := p.config.Grouping.Group(subscription.GroupingMethod, all)
	if err != nil {
		return nil, fmt.Errorf("failed to group activities: %w", err)
	}

	extracted := p.config.Extractor.Extract(all)

	var framework *frameworks.Framework

	if subscription.FrameworkID != "" {
		if found, ok := p.config.Frameworks.ByID(subscription.FrameworkID); ok {
			framework = &found
		} else {
			p.logger.WarnContext(ctx, "Unknown framework, using generic layout",
				"framework_id", subscription.FrameworkID)
		}
	}

	draft := synthesis.Synthesize(synthesis.Input{
		Subscription: subscription,
		Activities:   perTool,
		Signals:      extracted,
		Framework:    framework,
		Groups:       groups,
		GeneratedAt:  now,
	})

	entry = models.NewJournalEntry(subscription.UserID, subscription.WorkspaceID)
	entry.Title = draft.Title
	entry.Description = draft.Description
	entry.Body = draft.Body
	entry.Category = subscription.DefaultCategory
	entry.Tags = append(append([]string{}, subscription.DefaultTags...), models.AutoGeneratedTag)
	entry.Metadata = draft.Metadata

	if err := p.config.Entries.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to persist entry: %w", err)
	}

	return entry, nil
}

// reschedule recomputes the next due instant and stamps LastRunAt. It runs
// regardless of outcome so a subscription is never left stuck on a past due
// time.
func (p *Processor) reschedule(ctx context.Context, subscription *models.Subscription, now time.Time, logger *slog.Logger) {
	next := recurrence.NextRunFor(subscription, now)
	last := now.UTC()

	subscription.NextRunAt = &next
	subscription.LastRunAt = &last

	if err := p.config.Subscriptions.SaveSubscription(ctx, subscription); err != nil {
		logger.ErrorContext(ctx, "Failed to save reschedule", "error", err)

		return
	}

	logger.DebugContext(ctx, "Subscription rescheduled", "next_run_at", next)
}
