/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (environment + optional .env)
  2. Initialize logger
  3. Initialize SQLite store
  4. Wire classifier, action cascade and detector
  5. Configure HTTP router and cron sweep
  6. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the sweep scheduler, waiting for an in-flight run
  4. Close database connection
  5. Exit

ENVIRONMENT:
  PORT              HTTP server port (default: 8080)
  DATABASE_PATH     SQLite database path (default: ./attendance.db)
  LOG_LEVEL         trace|debug|info|warn|error (default: info)
  ENVIRONMENT       development|staging|production (default: development)
  SWEEP_CRON_SPEC   Cron spec for the absence sweep (default: every 15 min)
  SLACK_WEBHOOK_URL Optional process-level webhook fallback
  CORS_ORIGINS      Comma-separated allowed origins (default: *)

SEE ALSO:
  - config/config.go: Environment loading
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/attendance-engine/api"
	"github.com/warp/attendance-engine/config"
	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/logging"
	"github.com/warp/attendance-engine/notify"
	"github.com/warp/attendance-engine/policy"
	"github.com/warp/attendance-engine/schedule"
	"github.com/warp/attendance-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.Environment)

	// Initialize store
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer store.Close()

	// Domain wiring
	holidays := schedule.NewHolidayCalendar(store.Holidays())
	schedules := schedule.NewProvider(store.Schedules(), holidays)
	policies := policy.NewResolver(store.PolicyDocs())

	sink := notify.NewStoreSink(store.Notifications())
	slack := notify.NewSlackWebhook().WithFallbackURL(cfg.SlackWebhookURL)

	classifier := engine.NewClassifier(log)
	actions := engine.NewActions(store.Employees(), store.CheckIns(), store.Actions(), sink, slack, nil, log)
	detector := engine.NewDetector(store.Employees(), store.CheckIns(), store.Issues(), schedules, policies, actions, log)

	handler := &api.Handler{
		CheckIns:      store.CheckIns(),
		Issues:        store.Issues(),
		Employees:     store.Employees(),
		ActionLog:     store.Actions(),
		Holidays:      store.Holidays(),
		Schedules:     schedules,
		ScheduleStore: store.Schedules(),
		PolicyDocs:    store.PolicyDocs(),
		Policies:      policies,
		Notifications: store.Notifications(),
		Classifier:    classifier,
		Actions:       actions,
		Detector:      detector,
		Log:           log,
	}

	router := api.NewRouter(handler, cfg.CORSOrigins)

	sweeper := api.NewSweepScheduler(detector, cfg.SweepCronSpec, log)
	if err := sweeper.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start sweep scheduler")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Server starting on http://localhost:%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}
	sweeper.Stop()

	log.Info("Server stopped")
}
