package services

import (
	"context"
	"strings"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/locatrova/locatrova-go/internal/infrastructure/email"
	"github.com/locatrova/locatrova-go/internal/infrastructure/email/templates"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
)

// WelcomeService sends the welcome email to a new owner.
type WelcomeService struct {
	mailer email.Service
	logger *logging.ChanneledLogger
}

func NewWelcomeService(mailer email.Service, logger *logging.ChanneledLogger) *WelcomeService {
	return &WelcomeService{mailer: mailer, logger: logger}
}

// SendWelcome requires both email and name.
func (s *WelcomeService) SendWelcome(ctx context.Context, to, name string) error {
	verr := &leads.ValidationError{Fields: map[string]string{}}
	if strings.TrimSpace(to) == "" {
		verr.Fields["email"] = "required"
	}
	if strings.TrimSpace(name) == "" {
		verr.Fields["name"] = "required"
	}
	if len(verr.Fields) > 0 {
		return verr
	}

	err := s.mailer.SendMail(ctx, email.Message{
		To:      []string{to},
		Subject: templates.WelcomeSubject,
		HTML:    templates.RenderWelcomeEmail(name),
	})
	if err != nil {
		s.logger.Email().Error("Welcome email failed", "error", err.Error(), "to", logging.SanitizeEmail(to))
		return err
	}

	s.logger.Email().Info("Welcome email sent", "to", logging.SanitizeEmail(to))
	return nil
}
