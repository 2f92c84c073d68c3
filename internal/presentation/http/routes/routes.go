// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/locatrova/locatrova-go/internal/application/container"
	"github.com/locatrova/locatrova-go/internal/presentation/http/handlers"
	"github.com/locatrova/locatrova-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORSMiddleware(corsOrigins))
	r.Use(middleware.RequestIDMiddleware())

	formHandlers := handlers.NewFormHandlers(
		container.SubmissionService,
		container.AbandonmentService,
		container.WelcomeService,
		container.SetupService,
		container.Logger,
		container.PerfTracker,
	)
	healthHandlers := handlers.NewHealthHandlers(container.Registry, container.PerfTracker)

	api := r.Group("/api")
	{
		api.POST("/submit-form", formHandlers.HandleSubmitForm)
		api.POST("/form-abandonment", formHandlers.HandleFormAbandonment)
		api.POST("/send-welcome-email", formHandlers.HandleSendWelcomeEmail)
		api.POST("/setup-sheets", formHandlers.HandleSetupSheets)
		api.GET("/health", healthHandlers.HandleHealth)
	}

	return r
}
