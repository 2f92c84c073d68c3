package startup

import (
	"context"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/locatrova/locatrova-go/internal/infrastructure/caching/registry"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
	"github.com/locatrova/locatrova-go/internal/infrastructure/persistence/database"
	"github.com/locatrova/locatrova-go/internal/infrastructure/sheets"
	"github.com/locatrova/locatrova-go/pkg/config"
)

func noop() {}

// buildSheetStore selects the spreadsheet backend. A backend that cannot
// be built degrades to sheets.Unavailable instead of failing startup.
func buildSheetStore(ctx context.Context, logger *logging.ChanneledLogger) (leads.SheetStore, func()) {
	if config.SheetsBackend == config.SheetsBackendSQLite {
		db, err := database.NewConnectionWithLogger(ctx, database.Config{
			SQLitePath: config.SheetsSQLitePath,
			TursoURL:   config.TursoDatabaseURL,
			TursoToken: config.TursoAuthToken,
		}, logger)
		if err != nil {
			logger.Startup().Error("SQL sheet backend unavailable", "error", err.Error())
			return sheets.Unavailable{Provider: sheets.ProviderSQL, Err: err}, noop
		}
		store, err := sheets.NewSQLStore(ctx, db, logger)
		if err != nil {
			db.Close()
			logger.Startup().Error("SQL sheet schema failed", "error", err.Error())
			return sheets.Unavailable{Provider: sheets.ProviderSQL, Err: err}, noop
		}
		logger.Startup().Info("Using SQL sheet backend", "driver", db.Driver)
		return store, func() { db.Close() }
	}

	store, err := sheets.NewGoogleStore(ctx, sheets.GoogleConfig{
		AccessToken: config.GoogleSheetsAccessToken,
		Timeout:     config.SheetsTimeout,
	}, logger)
	if err != nil {
		logger.Startup().Error("Google Sheets unavailable", "error", err.Error())
		return sheets.Unavailable{Provider: sheets.ProviderGoogle, Err: err}, noop
	}
	logger.Startup().Info("Using Google Sheets backend")
	return store, noop
}

// buildRegistry uses Redis when REDIS_URL is set and reachable, otherwise
// process memory.
func buildRegistry(ctx context.Context, logger *logging.ChanneledLogger) (leads.SessionRegistry, func()) {
	if config.RedisURL != "" {
		redisRegistry, err := registry.NewRedisRegistryFromURL(ctx, config.RedisURL, config.RedisKeyPrefix, config.DedupRetention)
		if err == nil {
			logger.Startup().Info("Using Redis dedup registry", "prefix", config.RedisKeyPrefix)
			return redisRegistry, func() { redisRegistry.Close() }
		}
		logger.Startup().Warn("Redis unavailable, falling back to in-memory dedup registry", "error", err.Error())
	}
	logger.Startup().Info("Using in-memory dedup registry", "retention", config.DedupRetention)
	return registry.NewMemoryRegistry(config.DedupRetention), noop
}
