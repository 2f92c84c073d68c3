// Package services implements the lead-capture use cases on top of the
// domain capabilities: spreadsheet store, dedup registry and mailer.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/locatrova/locatrova-go/internal/infrastructure/email"
	"github.com/locatrova/locatrova-go/internal/infrastructure/email/templates"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
)

// Stage names the side effect a submission failed in.
type Stage string

const (
	StageSheet        Stage = "sheet"
	StageNotification Stage = "notification"
)

// StageError reports which side effect of a multi-step operation failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// SubmissionConfig holds the settings the submission flow depends on.
type SubmissionConfig struct {
	SpreadsheetID         string
	NotificationRecipient string
}

// SubmissionService persists a completed form and notifies the operator.
type SubmissionService struct {
	sheets leads.SheetStore
	mailer email.Service
	config SubmissionConfig
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(sheets leads.SheetStore, mailer email.Service, config SubmissionConfig, logger *logging.ChanneledLogger) *SubmissionService {
	return &SubmissionService{
		sheets: sheets,
		mailer: mailer,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Submit validates the submission, appends the spreadsheet row and then
// sends the notification email. Nothing is written when validation or the
// configuration check fails; the row stays saved when only the email fails.
func (s *SubmissionService) Submit(ctx context.Context, submission *leads.FormSubmission) error {
	if err := submission.Validate(); err != nil {
		return err
	}

	if s.config.SpreadsheetID == "" {
		return &leads.ConfigurationError{Setting: "GOOGLE_SHEETS_ID"}
	}

	row := leads.SheetRow(submission, s.now())
	if err := s.sheets.Append(ctx, s.config.SpreadsheetID, row); err != nil {
		return &StageError{Stage: StageSheet, Err: err}
	}

	s.logger.Submission().Info("Submission saved",
		"email", logging.SanitizeEmail(submission.Email),
		"spaceType", submission.SpaceType,
		"city", submission.City)

	msg := email.Message{
		To:      []string{s.config.NotificationRecipient},
		Subject: templates.NotificationSubject,
		HTML:    templates.RenderNotificationEmail(templates.NewNotificationData(submission)),
	}
	if err := s.mailer.SendMail(ctx, msg); err != nil {
		s.logger.Submission().Error("Notification email failed after the row was saved",
			"error", err.Error(),
			"email", logging.SanitizeEmail(submission.Email))
		return &StageError{Stage: StageNotification, Err: err}
	}

	return nil
}
