// Package sheets implements leads.SheetStore on Google Sheets and on a
// local SQL database used in development.
package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const (
	ProviderGoogle = "google-sheets"

	// AppendRange covers the eleven request columns.
	AppendRange      = "A:K"
	valueInputOption = "USER_ENTERED"
)

// GoogleConfig holds the credentials and limits of the Google store.
type GoogleConfig struct {
	// AccessToken, when set, is used as a static OAuth2 bearer token.
	// Otherwise Application Default Credentials are looked up.
	AccessToken string
	Timeout     time.Duration
}

// GoogleStore writes rows through the Sheets v4 API.
type GoogleStore struct {
	service *gsheets.Service
	timeout time.Duration
	logger  *logging.ChanneledLogger
}

// NewGoogleStore resolves credentials and builds the Sheets client.
func NewGoogleStore(ctx context.Context, cfg GoogleConfig, logger *logging.ChanneledLogger) (*GoogleStore, error) {
	var tokenSource oauth2.TokenSource
	if cfg.AccessToken != "" {
		tokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	} else {
		creds, err := google.FindDefaultCredentials(ctx, gsheets.SpreadsheetsScope)
		if err != nil {
			return nil, &leads.ConfigurationError{Setting: "GOOGLE_APPLICATION_CREDENTIALS"}
		}
		tokenSource = creds.TokenSource
	}

	service, err := gsheets.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return NewGoogleStoreWithService(service, cfg.Timeout, logger), nil
}

// NewGoogleStoreWithService wraps an already configured Sheets service.
func NewGoogleStoreWithService(service *gsheets.Service, timeout time.Duration, logger *logging.ChanneledLogger) *GoogleStore {
	return &GoogleStore{service: service, timeout: timeout, logger: logger}
}

func (s *GoogleStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Append adds row after the last populated row of the first sheet.
func (s *GoogleStore) Append(ctx context.Context, spreadsheetID string, row []string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := s.service.Spreadsheets.Values.
		Append(spreadsheetID, AppendRange, &gsheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		s.logger.Sheets().Error("Append failed", "error", err.Error(), "duration", time.Since(start))
		return &leads.ProviderError{Provider: ProviderGoogle, Operation: "append", Err: err}
	}

	s.logger.Sheets().Info("Row appended", "cells", len(row), "duration", time.Since(start))
	return nil
}

// Create makes a spreadsheet with a single sheet whose first row is header.
func (s *GoogleStore) Create(ctx context.Context, title, sheetTitle string, header []string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cells := make([]*gsheets.CellData, len(header))
	for i := range header {
		value := header[i]
		cells[i] = &gsheets.CellData{UserEnteredValue: &gsheets.ExtendedValue{StringValue: &value}}
	}

	spreadsheet := &gsheets.Spreadsheet{
		Properties: &gsheets.SpreadsheetProperties{Title: title},
		Sheets: []*gsheets.Sheet{{
			Properties: &gsheets.SheetProperties{Title: sheetTitle},
			Data: []*gsheets.GridData{{
				RowData: []*gsheets.RowData{{Values: cells}},
			}},
		}},
	}

	created, err := s.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		s.logger.Sheets().Error("Spreadsheet creation failed", "error", err.Error())
		return "", &leads.ProviderError{Provider: ProviderGoogle, Operation: "create", Err: err}
	}

	s.logger.Sheets().Info("Spreadsheet created", "spreadsheetId", created.SpreadsheetId)
	return created.SpreadsheetId, nil
}
