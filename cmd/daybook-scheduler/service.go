package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/daybookhq/daybook/pkg/scheduler"
)

// Service runs the scheduler poll loop: at every tick of the configured
// cron cadence it asks the driver to process the current due window.
type Service struct {
	id           string
	driver       *scheduler.Driver
	schedule     cron.Schedule
	logger       *slog.Logger
	restartCount int
}

// NewService creates a new scheduler service.
func NewService(id string, driver *scheduler.Driver, schedule cron.Schedule, logger *slog.Logger) *Service {
	return &Service{
		id:       id,
		driver:   driver,
		schedule: schedule,
		logger:   logger.With("module", "service"),
	}
}

// Start begins the scheduler service and blocks until shutdown.
func (s *Service) Start(ctx context.Context) {
	sCtx, cancel := context.WithCancel(ctx)

	s.logger.Info("Starting scheduler service")

	s.handleSignals(sCtx, cancel)
	s.run(sCtx)
}

// handleSignals sets up signal handling for graceful shutdown and restart.
func (s *Service) handleSignals(ctx context.Context, cancel context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signals
		s.logger.Info("Received signal", "signal", sig)

		switch sig {
		case syscall.SIGHUP:
			s.logger.Info("Reloading configuration...")
			s.restart(ctx, cancel)
		case syscall.SIGINT, syscall.SIGTERM:
			s.logger.Info("Shutting down gracefully...")
			s.stop(cancel)
			os.Exit(0)
		default:
			s.logger.Warn("Unhandled signal received", "signal", sig)
		}
	}()
}

// restart handles service restart with exponential backoff.
func (s *Service) restart(ctx context.Context, cancel context.CancelFunc) {
	s.restartCount++
	newCtx := context.WithoutCancel(ctx)

	s.stop(cancel)

	if s.restartCount > 5 {
		s.logger.Error("Restart limit reached, exiting...")
		os.Exit(1)
	}

	backoff := time.Duration(s.restartCount) * time.Second
	s.logger.Info("Restarting scheduler service...", "backoff", backoff)
	time.Sleep(backoff)

	s.Start(newCtx)
}

// run is the main loop. An immediate tick on startup catches subscriptions
// that came due while the service was down but are still inside the window.
func (s *Service) run(ctx context.Context) {
	s.tick(ctx)

	for {
		now := time.Now().UTC()
		next := s.schedule.Next(now)

		s.logger.Debug("Waiting for next poll", "next_poll_at", next)

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Scheduler context cancelled, stopping...")

			return
		case <-timer.C:
			s.tick(ctx)
		}
	}
}

func (s *Service) tick(ctx context.Context) {
	if err := s.driver.RunTick(ctx, time.Now().UTC()); err != nil {
		s.logger.Error("Scheduler tick failed", "error", err)
	}
}

// stop gracefully shuts down the service.
func (s *Service) stop(cancel context.CancelFunc) {
	s.logger.Info("Stopping scheduler service")

	if cancel != nil {
		cancel()
	}
}
