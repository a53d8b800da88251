package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	cli "github.com/urfave/cli/v3"

	"github.com/daybookhq/daybook/pkg/cmd"
	"github.com/daybookhq/daybook/pkg/frameworks"
	"github.com/daybookhq/daybook/pkg/grouping"
	"github.com/daybookhq/daybook/pkg/log"
	"github.com/daybookhq/daybook/pkg/notify"
	"github.com/daybookhq/daybook/pkg/otelhelper"
	"github.com/daybookhq/daybook/pkg/scheduler"
	"github.com/daybookhq/daybook/pkg/signals"
)

func main() {
	command := &cli.Command{
		Name:                  "daybook-scheduler",
		Usage:                 "Start the Daybook journal generation scheduler",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "scheduler-id",
				Aliases: []string{"id"},
				Usage:   "Custom scheduler ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("SCHEDULER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence (postgres://... or file://...)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the tool-connection registry",
				Value:   "",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider for notifications (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "poll-cron",
				Usage:   "Cron expression for the due-subscription poll cadence",
				Value:   "*/20 * * * *",
				Sources: cli.EnvVars("POLL_CRON"),
			},
			&cli.StringFlag{
				Name:    "framework-file",
				Usage:   "Optional JSON file with additional content frameworks",
				Value:   "",
				Sources: cli.EnvVars("FRAMEWORK_FILE"),
			},
			&cli.BoolFlag{
				Name:    "generate-when-empty",
				Usage:   "Testing override: generate entries even without activity",
				Value:   false,
				Sources: cli.EnvVars("GENERATE_WHEN_EMPTY"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		slog.Error("Scheduler exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	tracerProvider, err := otelhelper.InitTracer(ctx, "daybook-scheduler")
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}

	defer func() {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			slog.Error("Failed to shutdown tracer provider", "error", err)
		}
	}()

	schedulerID := command.String("scheduler-id")
	if schedulerID == "" {
		schedulerID = fmt.Sprintf("scheduler-%s", uuid.New().String()[:8])
	}

	logger := log.WithModule("daybook-scheduler").With("scheduler_id", schedulerID)
	logger.Info("Initializing Daybook scheduler")

	pollSchedule, err := cron.ParseStandard(command.String("poll-cron"))
	if err != nil {
		return fmt.Errorf("invalid poll-cron expression: %w", err)
	}

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.Error("Failed to close persistence", "error", err)
		}
	}()

	connectionStore, err := cmd.NewConnectionStore(ctx, logger, command.String("redis-url"))
	if err != nil {
		return fmt.Errorf("failed to initialize connection registry: %w", err)
	}

	defer func() {
		if err := connectionStore.Close(); err != nil {
			logger.Error("Failed to close connection registry", "error", err)
		}
	}()

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), "daybook-scheduler", logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event bus: %w", err)
	}

	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", "error", err)
		}
	}()

	frameworkRegistry := frameworks.NewRegistry()
	if path := command.String("framework-file"); path != "" {
		if err := frameworkRegistry.LoadFile(path); err != nil {
			return fmt.Errorf("failed to load frameworks: %w", err)
		}
	}

	processor := scheduler.NewProcessor(scheduler.ProcessorConfig{
		Subscriptions:     persistence,
		Activities:        persistence,
		Entries:           persistence,
		Connections:       connectionStore,
		Notifier:          notify.NewNotifier(persistence, eventBus, logger),
		Grouping:          grouping.NewEngine(grouping.CrossRefClusterer),
		Extractor:         signals.NewExtractor(nil),
		Frameworks:        frameworkRegistry,
		Logger:            logger,
		GenerateWhenEmpty: command.Bool("generate-when-empty"),
	})

	driver := scheduler.NewDriver(schedulerID, persistence, processor, logger)

	service := NewService(schedulerID, driver, pollSchedule, logger)
	service.Start(ctx)

	return nil
}
