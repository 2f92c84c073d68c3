package leads

import (
	"context"
	"time"
)

// SheetStore is the append-only spreadsheet the submissions are written to.
type SheetStore interface {
	// Append adds one row after the last populated row of the spreadsheet.
	Append(ctx context.Context, spreadsheetID string, row []string) error
	// Create makes a new spreadsheet whose first row is header and returns its id.
	Create(ctx context.Context, title, sheetTitle string, header []string) (string, error)
}

// SessionRegistry records which abandonment sessions were already handled.
// Claim must be an atomic check-then-insert under the backing store's
// guarantees.
type SessionRegistry interface {
	// Claim records sessionID as processed at the given time and reports
	// whether this call was the first to do so within the retention window.
	Claim(ctx context.Context, sessionID string, at time.Time) (bool, error)
	// Sweep drops every entry processed before olderThan and returns the count.
	Sweep(ctx context.Context, olderThan time.Time) (int, error)
	// Len returns the number of tracked sessions.
	Len(ctx context.Context) (int, error)
}
