package services

import (
	"context"
	"sync"

	"github.com/locatrova/locatrova-go/internal/infrastructure/email"
)

type appendCall struct {
	SpreadsheetID string
	Row           []string
}

type fakeSheets struct {
	mu        sync.Mutex
	appends   []appendCall
	appendErr error
	createErr error
	createdID string
	created   []string
}

func (f *fakeSheets) Append(_ context.Context, spreadsheetID string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appends = append(f.appends, appendCall{SpreadsheetID: spreadsheetID, Row: row})
	return nil
}

func (f *fakeSheets) Create(_ context.Context, title, sheetTitle string, header []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, title+"/"+sheetTitle)
	return f.createdID, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (f *fakeMailer) SendMail(_ context.Context, msg email.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
