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

// Outcome describes how an accepted abandonment beacon was handled.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeDisabled  Outcome = "disabled"
)

// AbandonmentConfig holds the settings of the abandonment flow.
type AbandonmentConfig struct {
	Enabled         bool
	Recipient       string
	MaxPayloadBytes int
}

// AbandonmentService turns abandonment beacons into at most one operator
// email per session within the registry's retention window.
type AbandonmentService struct {
	registry leads.SessionRegistry
	mailer   email.Service
	config   AbandonmentConfig
	logger   *logging.ChanneledLogger
	now      func() time.Time
}

// NewAbandonmentService creates a new AbandonmentService.
func NewAbandonmentService(registry leads.SessionRegistry, mailer email.Service, config AbandonmentConfig, logger *logging.ChanneledLogger) *AbandonmentService {
	return &AbandonmentService{
		registry: registry,
		mailer:   mailer,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle applies the guards in order: payload size, body shape, feature
// flag, dedup claim. Only a fresh claim sends the email. A claimed session
// stays claimed when the email fails.
func (s *AbandonmentService) Handle(ctx context.Context, body []byte) (Outcome, error) {
	if s.config.MaxPayloadBytes > 0 && leads.PayloadSize(body) > s.config.MaxPayloadBytes {
		return "", leads.ErrPayloadTooLarge
	}

	req, err := leads.DecodeAbandonment(body)
	if err != nil {
		return "", err
	}

	log := s.logger.Abandonment().With("sessionId", logging.SanitizeSessionID(req.SessionID))

	if !s.config.Enabled {
		log.Info("Abandonment tracking disabled, beacon ignored")
		return OutcomeDisabled, nil
	}

	now := s.now()
	claimed, err := s.registry.Claim(ctx, req.SessionID, now)
	if err != nil {
		return "", fmt.Errorf("failed to claim session: %w", err)
	}
	if !claimed {
		log.Info("Abandonment already processed")
		return OutcomeDuplicate, nil
	}

	record := leads.NewAbandonmentRecord(req.SessionID, req.StartedAt, req.PartialData, now)

	msg := email.Message{
		To:      []string{s.config.Recipient},
		Subject: templates.AbandonmentSubject(req.SessionID),
		HTML:    templates.RenderAbandonmentEmail(templates.NewAbandonmentData(record)),
	}
	if err := s.mailer.SendMail(ctx, msg); err != nil {
		log.Error("Abandonment email failed", "error", err.Error())
		return "", err
	}

	log.Info("Abandonment processed",
		"completed", len(record.CompletedFields),
		"missing", len(record.MissingFields))
	return OutcomeProcessed, nil
}
