// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/locatrova/locatrova-go/internal/application/container"
	"github.com/locatrova/locatrova-go/internal/application/services"
	"github.com/locatrova/locatrova-go/internal/infrastructure/caching/cleanup"
	"github.com/locatrova/locatrova-go/internal/infrastructure/email"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/performance"
	"github.com/locatrova/locatrova-go/internal/presentation/http/server"
	"github.com/locatrova/locatrova-go/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[38;2;255;107;53m" + `
  LOCATROVA
` + "\033[97m" + `  lead capture backend
` + "\033[0m")

	// Step 1: Channeled logging
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: true,
		LogDirectory:    config.LogDirectory,
		JSONFormat:      config.LogFormat != "text",
		DefaultLevel:    logging.ParseLevel(config.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig(), logger.Perf())

	// Step 2: Mailing service
	phaseStart := time.Now()
	mailer, err := email.NewService(config.ResendAPIKey, config.EmailFrom)
	logger.LogStartupPhase("mailer", time.Since(phaseStart), err == nil)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	// Step 3: Spreadsheet store
	phaseStart = time.Now()
	sheetStore, closeSheets := buildSheetStore(ctx, logger)
	defer closeSheets()
	logger.LogStartupPhase("sheets", time.Since(phaseStart), true)

	// Step 4: Dedup registry
	phaseStart = time.Now()
	registry, closeRegistry := buildRegistry(ctx, logger)
	defer closeRegistry()
	logger.LogStartupPhase("registry", time.Since(phaseStart), true)

	// Step 5: Dependency injection container
	appContainer := container.NewContainer(
		container.Infrastructure{Mailer: mailer, Sheets: sheetStore, Registry: registry},
		container.Settings{
			Submission: services.SubmissionConfig{
				SpreadsheetID:         config.GoogleSheetsID,
				NotificationRecipient: config.NotificationEmailRecipient,
			},
			Abandonment: services.AbandonmentConfig{
				Enabled:         config.AbandonmentTrackingEnabled,
				Recipient:       config.AbandonmentRecipient(),
				MaxPayloadBytes: config.AbandonmentMaxPayloadBytes,
			},
		},
		logger,
		perfTracker,
	)
	logger.Startup().Info("Dependency injection container created",
		"abandonmentTracking", config.AbandonmentTrackingEnabled,
		"sheetsBackend", config.SheetsBackend,
		"spreadsheetConfigured", config.GoogleSheetsID != "")

	// Step 6: Background sweep worker
	sweepWorker := cleanup.NewWorker(registry, cleanup.NewConfig(), logger)
	go sweepWorker.Start(ctx)

	// Step 7: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	select {
	case err := <-serverErrors:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			return err
		}
		return nil
	case <-gracefulShutdown:
	}

	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	shutdownStart := time.Now()

	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
