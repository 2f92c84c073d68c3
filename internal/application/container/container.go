// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/locatrova/locatrova-go/internal/application/services"
	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/locatrova/locatrova-go/internal/infrastructure/email"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/performance"
)

// Infrastructure groups the capability implementations chosen at startup.
type Infrastructure struct {
	Mailer   email.Service
	Sheets   leads.SheetStore
	Registry leads.SessionRegistry
}

// Settings carries the configuration values the services depend on.
type Settings struct {
	Submission  services.SubmissionConfig
	Abandonment services.AbandonmentConfig
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	SubmissionService  *services.SubmissionService
	AbandonmentService *services.AbandonmentService
	WelcomeService     *services.WelcomeService
	SetupService       *services.SetupService

	// Infrastructure Dependencies
	Mailer   email.Service
	Sheets   leads.SheetStore
	Registry leads.SessionRegistry

	// Observability
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(infra Infrastructure, settings Settings, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Container {
	return &Container{
		SubmissionService:  services.NewSubmissionService(infra.Sheets, infra.Mailer, settings.Submission, logger),
		AbandonmentService: services.NewAbandonmentService(infra.Registry, infra.Mailer, settings.Abandonment, logger),
		WelcomeService:     services.NewWelcomeService(infra.Mailer, logger),
		SetupService:       services.NewSetupService(infra.Sheets, logger),

		Mailer:   infra.Mailer,
		Sheets:   infra.Sheets,
		Registry: infra.Registry,

		Logger:      logger,
		PerfTracker: perfTracker,
	}
}
