// Package database provides the core functionality for creating and managing
// database connections in a clean, isolated manner.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const (
	DriverSQLite = "sqlite3"
	DriverLibSQL = "libsql"
)

// Config selects the backing database. A Turso URL takes precedence over
// the local SQLite file.
type Config struct {
	SQLitePath string
	TursoURL   string
	TursoToken string
}

// DB represents a wrapper around the standard SQL database connection.
type DB struct {
	*sql.DB
	Driver string
}

func (c Config) driver() (string, string) {
	if c.TursoURL != "" {
		dsn := c.TursoURL
		if c.TursoToken != "" {
			dsn += "?authToken=" + c.TursoToken
		}
		return DriverLibSQL, dsn
	}
	return DriverSQLite, c.SQLitePath
}

// NewConnectionWithLogger opens and pings the configured database.
func NewConnectionWithLogger(ctx context.Context, cfg Config, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	driverName, dataSourceName := cfg.driver()
	logger.Database().Debug("Creating new database connection", "driverName", driverName)

	if driverName == DriverSQLite {
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", driverName)
		return nil, err
	}

	if driverName == DriverSQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		logger.Database().Error("Database ping failed", "error", err.Error(), "driverName", driverName)
		return nil, err
	}

	logger.Database().Info("Database connection established", "driverName", driverName, "duration", time.Since(start))
	return &DB{DB: db, Driver: driverName}, nil
}

// CreateSchema executes the statements in order, stopping at the first failure.
func (db *DB) CreateSchema(ctx context.Context, statements []string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema for query [%s]: %w", stmt, err)
		}
	}
	return nil
}
