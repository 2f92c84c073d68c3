package sheets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
	"github.com/locatrova/locatrova-go/internal/infrastructure/persistence/database"
	"github.com/locatrova/locatrova-go/internal/infrastructure/security"
)

const ProviderSQL = "sql-sheets"

// ErrSpreadsheetNotFound is wrapped when appending to an unknown spreadsheet.
var ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS spreadsheets (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		sheet_title TEXT NOT NULL,
		header TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sheet_rows (
		position INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		spreadsheet_id TEXT NOT NULL REFERENCES spreadsheets(id),
		cells TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sheet_rows_spreadsheet ON sheet_rows(spreadsheet_id, position)`,
}

// SQLStore keeps spreadsheets in SQLite or Turso, one row per appended line.
type SQLStore struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLStore ensures the schema exists.
func NewSQLStore(ctx context.Context, db *database.DB, logger *logging.ChanneledLogger) (*SQLStore, error) {
	if err := db.CreateSchema(ctx, schema); err != nil {
		return nil, err
	}
	return &SQLStore{db: db, logger: logger}, nil
}

func (s *SQLStore) Create(ctx context.Context, title, sheetTitle string, header []string) (string, error) {
	encoded, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("failed to encode header: %w", err)
	}

	id := security.GenerateULID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO spreadsheets (id, title, sheet_title, header, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, title, sheetTitle, string(encoded), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", &leads.ProviderError{Provider: ProviderSQL, Operation: "create", Err: err}
	}

	s.logger.Sheets().Info("Spreadsheet created", "spreadsheetId", id, "driver", s.db.Driver)
	return id, nil
}

func (s *SQLStore) Append(ctx context.Context, spreadsheetID string, row []string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM spreadsheets WHERE id = ?)`, spreadsheetID).Scan(&exists)
	if err != nil {
		return &leads.ProviderError{Provider: ProviderSQL, Operation: "append", Err: err}
	}
	if !exists {
		return &leads.ProviderError{Provider: ProviderSQL, Operation: "append", Err: ErrSpreadsheetNotFound}
	}

	encoded, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sheet_rows (id, spreadsheet_id, cells, created_at) VALUES (?, ?, ?, ?)`,
		security.GenerateULID(), spreadsheetID, string(encoded), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return &leads.ProviderError{Provider: ProviderSQL, Operation: "append", Err: err}
	}

	s.logger.Sheets().Debug("Row appended", "spreadsheetId", spreadsheetID, "cells", len(row))
	return nil
}

// Rows returns the header followed by every appended row, in append order.
func (s *SQLStore) Rows(ctx context.Context, spreadsheetID string) ([][]string, error) {
	var header string
	err := s.db.QueryRowContext(ctx, `SELECT header FROM spreadsheets WHERE id = ?`, spreadsheetID).Scan(&header)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSpreadsheetNotFound
	}
	if err != nil {
		return nil, err
	}

	var first []string
	if err := json.Unmarshal([]byte(header), &first); err != nil {
		return nil, fmt.Errorf("corrupt header: %w", err)
	}
	rows := [][]string{first}

	result, err := s.db.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE spreadsheet_id = ? ORDER BY position`, spreadsheetID)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	for result.Next() {
		var cells string
		if err := result.Scan(&cells); err != nil {
			return nil, err
		}
		var row []string
		if err := json.Unmarshal([]byte(cells), &row); err != nil {
			return nil, fmt.Errorf("corrupt row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, result.Err()
}
