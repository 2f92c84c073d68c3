// Package performance provides lightweight per-operation timing for the
// HTTP handlers and application services.
package performance

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Tracker aggregates completed markers by operation name
type Tracker struct {
	stats         map[string]*OperationStats
	active        int
	slowThreshold time.Duration
	logger        *slog.Logger
	mu            sync.Mutex
	started       time.Time
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	SlowThreshold time.Duration `json:"slowThreshold"` // operations slower than this are logged
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		SlowThreshold: 2 * time.Second,
	}
}

// NewTracker creates a new performance tracker with the given configuration.
// logger may be nil.
func NewTracker(config *TrackerConfig, logger *slog.Logger) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		stats:         make(map[string]*OperationStats),
		slowThreshold: config.SlowThreshold,
		logger:        logger,
		started:       time.Now(),
	}
}

// StartOperation creates a new performance marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	t.mu.Lock()
	t.active++
	t.mu.Unlock()

	return &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Success:   true, // Assume success until proven otherwise
		tracker:   t,
	}
}

func (t *Tracker) record(m *Marker) {
	t.mu.Lock()
	t.active--
	stats, ok := t.stats[m.Operation]
	if !ok {
		stats = &OperationStats{}
		t.stats[m.Operation] = stats
	}
	stats.Count++
	stats.TotalDuration += m.Duration
	if m.Duration > stats.MaxDuration {
		stats.MaxDuration = m.Duration
	}
	if !m.Success {
		stats.Failures++
		stats.LastError = m.Error
	}
	t.mu.Unlock()

	if t.logger != nil && t.slowThreshold > 0 && m.Duration > t.slowThreshold {
		t.logger.Warn("Slow operation",
			"operation", m.Operation,
			"duration", m.Duration,
			"success", m.Success)
	}
}

// GetStats returns a copy of the stats of one operation.
func (t *Tracker) GetStats(operation string) (OperationStats, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats, ok := t.stats[operation]
	if !ok {
		return OperationStats{}, false
	}
	return *stats, true
}

// GetOverallStats returns overall tracker statistics
func (t *Tracker) GetOverallStats() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	operations := make(map[string]any, len(t.stats))
	completed := 0
	for name, stats := range t.stats {
		completed += stats.Count
		operations[name] = map[string]any{
			"count":     stats.Count,
			"failures":  stats.Failures,
			"averageMs": stats.AverageDuration().Milliseconds(),
			"maxMs":     stats.MaxDuration.Milliseconds(),
		}
	}

	return map[string]any{
		"trackerUptime":       time.Since(t.started).String(),
		"activeOperations":    t.active,
		"completedOperations": completed,
		"operations":          operations,
		"memoryUsageMB":       memStats.Alloc / (1024 * 1024),
	}
}
