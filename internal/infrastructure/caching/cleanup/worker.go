// Package cleanup provides the background worker that sweeps expired
// sessions out of the dedup registry.
package cleanup

import (
	"context"
	"time"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
)

// Worker periodically removes registry entries older than the retention window
type Worker struct {
	registry leads.SessionRegistry
	config   *Config
	logger   *logging.ChanneledLogger
	now      func() time.Time
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(registry leads.SessionRegistry, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		registry: registry,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins the cleanup worker routine, using the configured interval.
// It returns when ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.SweepInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Registry sweep worker started",
		"interval", w.config.SweepInterval, "retention", w.config.Retention)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Registry sweep worker stopping")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep and returns the number of removed entries.
func (w *Worker) RunOnce(ctx context.Context) int {
	start := time.Now()
	cutoff := w.now().Add(-w.config.Retention)

	removed, err := w.registry.Sweep(ctx, cutoff)
	if err != nil {
		w.logger.LogError(logging.ChannelCache, "registry_sweep", err, nil)
		return 0
	}

	remaining, err := w.registry.Len(ctx)
	if err != nil {
		remaining = -1
	}

	if removed > 0 {
		w.logger.Cache().Info("Registry sweep finished",
			"removed", removed, "remaining", remaining, "duration", time.Since(start))
	} else {
		w.logger.Cache().Debug("Registry sweep found no expired sessions", "remaining", remaining)
	}
	return removed
}
