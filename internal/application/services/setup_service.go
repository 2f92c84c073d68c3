package services

import (
	"context"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
)

// SetupService bootstraps the requests spreadsheet.
type SetupService struct {
	sheets leads.SheetStore
	logger *logging.ChanneledLogger
}

func NewSetupService(sheets leads.SheetStore, logger *logging.ChanneledLogger) *SetupService {
	return &SetupService{sheets: sheets, logger: logger}
}

// CreateSpreadsheet creates the spreadsheet with the fixed header row and returns its id.
func (s *SetupService) CreateSpreadsheet(ctx context.Context) (string, error) {
	id, err := s.sheets.Create(ctx, leads.SpreadsheetTitle, leads.SheetTitle, leads.SheetHeader)
	if err != nil {
		s.logger.Sheets().Error("Spreadsheet setup failed", "error", err.Error())
		return "", err
	}
	s.logger.Sheets().Info("Spreadsheet ready, set GOOGLE_SHEETS_ID to use it", "spreadsheetId", id)
	return id, nil
}
