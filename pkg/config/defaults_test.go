package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENABLE_ABANDONMENT_TRACKING", "")
	t.Setenv("ABANDONMENT_EMAIL_RECIPIENT", "")
	t.Setenv("DEDUP_RETENTION_HOURS", "")
	t.Setenv("SHEETS_BACKEND", "")
	Load()

	assert.False(t, AbandonmentTrackingEnabled)
	assert.Equal(t, 50000, AbandonmentMaxPayloadBytes)
	assert.Equal(t, 24*time.Hour, DedupRetention)
	assert.Equal(t, time.Hour, DedupSweepInterval)
	assert.Equal(t, SheetsBackendGoogle, SheetsBackend)
	assert.Equal(t, DefaultAbandonmentRecipient, AbandonmentRecipient())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENABLE_ABANDONMENT_TRACKING", "true")
	t.Setenv("ABANDONMENT_EMAIL_RECIPIENT", "ops@example.com")
	t.Setenv("DEDUP_RETENTION_HOURS", "48")
	t.Setenv("SHEETS_BACKEND", "SQLite")
	t.Setenv("CORS_ORIGINS", "https://locatrova.com, https://www.locatrova.com,")
	Load()
	defer func() {
		t.Setenv("ENABLE_ABANDONMENT_TRACKING", "")
		t.Setenv("ABANDONMENT_EMAIL_RECIPIENT", "")
		t.Setenv("DEDUP_RETENTION_HOURS", "")
		t.Setenv("SHEETS_BACKEND", "")
		t.Setenv("CORS_ORIGINS", "")
		Load()
	}()

	assert.True(t, AbandonmentTrackingEnabled)
	assert.Equal(t, "ops@example.com", AbandonmentRecipient())
	assert.Equal(t, 48*time.Hour, DedupRetention)
	assert.Equal(t, SheetsBackendSQLite, SheetsBackend)
	assert.Equal(t, []string{"https://locatrova.com", "https://www.locatrova.com"}, CORSOrigins)
}

func TestFlagRequiresLiteralTrue(t *testing.T) {
	t.Setenv("ENABLE_ABANDONMENT_TRACKING", "1")
	Load()
	defer func() {
		t.Setenv("ENABLE_ABANDONMENT_TRACKING", "")
		Load()
	}()
	assert.False(t, AbandonmentTrackingEnabled)
}
