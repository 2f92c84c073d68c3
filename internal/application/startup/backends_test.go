package startup

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/locatrova/locatrova-go/internal/infrastructure/caching/registry"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
	"github.com/locatrova/locatrova-go/internal/infrastructure/sheets"
	"github.com/locatrova/locatrova-go/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// override sets a config global for the duration of the test.
func override[T any](t *testing.T, target *T, value T) {
	t.Helper()
	previous := *target
	*target = value
	t.Cleanup(func() { *target = previous })
}

func TestBuildSheetStoreSQLite(t *testing.T) {
	override(t, &config.SheetsBackend, config.SheetsBackendSQLite)
	override(t, &config.SheetsSQLitePath, filepath.Join(t.TempDir(), "sheets.db"))
	override(t, &config.TursoDatabaseURL, "")

	store, closeStore := buildSheetStore(context.Background(), logging.NewDiscardLogger())
	defer closeStore()

	sqlStore, ok := store.(*sheets.SQLStore)
	require.True(t, ok, "got %T", store)

	id, err := sqlStore.Create(context.Background(), "Locatrova", "Richieste", []string{"Data"})
	require.NoError(t, err)
	assert.NoError(t, sqlStore.Append(context.Background(), id, []string{"1/1/2026, 9:00:00"}))
}

func TestBuildSheetStoreDegradesToUnavailable(t *testing.T) {
	override(t, &config.SheetsBackend, config.SheetsBackendSQLite)
	override(t, &config.SheetsSQLitePath, "")
	override(t, &config.TursoDatabaseURL, "")

	store, closeStore := buildSheetStore(context.Background(), logging.NewDiscardLogger())
	defer closeStore()

	_, ok := store.(sheets.Unavailable)
	require.True(t, ok, "got %T", store)
	assert.Error(t, store.Append(context.Background(), "any", []string{"x"}))
}

func TestBuildSheetStoreGoogleWithToken(t *testing.T) {
	override(t, &config.SheetsBackend, config.SheetsBackendGoogle)
	override(t, &config.GoogleSheetsAccessToken, "test-token")

	store, closeStore := buildSheetStore(context.Background(), logging.NewDiscardLogger())
	defer closeStore()

	_, ok := store.(*sheets.GoogleStore)
	assert.True(t, ok, "got %T", store)
}

func TestBuildRegistry(t *testing.T) {
	logger := logging.NewDiscardLogger()
	override(t, &config.DedupRetention, time.Hour)

	t.Run("memory without url", func(t *testing.T) {
		override(t, &config.RedisURL, "")
		reg, closeReg := buildRegistry(context.Background(), logger)
		defer closeReg()
		_, ok := reg.(*registry.MemoryRegistry)
		assert.True(t, ok, "got %T", reg)
	})

	t.Run("redis when reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		override(t, &config.RedisURL, "redis://"+mr.Addr())
		reg, closeReg := buildRegistry(context.Background(), logger)
		defer closeReg()
		_, ok := reg.(*registry.RedisRegistry)
		assert.True(t, ok, "got %T", reg)
	})

	t.Run("memory when redis is down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		override(t, &config.RedisURL, "redis://"+addr)
		reg, closeReg := buildRegistry(context.Background(), logger)
		defer closeReg()
		_, ok := reg.(*registry.MemoryRegistry)
		assert.True(t, ok, "got %T", reg)
	})
}
