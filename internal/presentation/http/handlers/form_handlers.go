// Package handlers provides the HTTP handlers of the lead-capture API.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/locatrova/locatrova-go/internal/application/services"
	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/performance"
)

// MaxBodyBytes caps every request body read by these handlers.
const MaxBodyBytes = 1 << 20

const (
	msgSubmitInvalid     = "Dati del form non validi. Controlla i campi e riprova."
	msgSubmitNoSheet     = "Google Sheets ID non configurato. Configura la variabile GOOGLE_SHEETS_ID nelle impostazioni."
	msgSubmitSheetFailed = "Errore nel salvataggio dei dati. Verifica che il foglio Google Sheets sia configurato correttamente."
	msgSubmitInternal    = "Errore interno del server. Riprova più tardi."
	msgSubmitOK          = "Richiesta inviata con successo!"

	msgPayloadTooLarge  = "Payload too large"
	msgInvalidBody      = "Invalid request body"
	msgFeatureDisabled  = "Feature disabled"
	msgAlreadyProcessed = "Already processed"
	msgInternal         = "Internal server error"

	msgWelcomeInvalid  = "Email and name are required."
	msgWelcomeOK       = "Welcome email sent successfully!"
	msgWelcomeInternal = "Internal server error."

	msgSetupFailed = "Failed to create spreadsheet"
)

// FormHandlers handles the landing page form endpoints.
type FormHandlers struct {
	submissions *services.SubmissionService
	abandonment *services.AbandonmentService
	welcome     *services.WelcomeService
	setup       *services.SetupService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewFormHandlers creates a new FormHandlers instance.
func NewFormHandlers(
	submissions *services.SubmissionService,
	abandonment *services.AbandonmentService,
	welcome *services.WelcomeService,
	setup *services.SetupService,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *FormHandlers {
	return &FormHandlers{
		submissions: submissions,
		abandonment: abandonment,
		welcome:     welcome,
		setup:       setup,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// readBody reads the request body through a hard cap.
func readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, leads.ErrPayloadTooLarge
		}
		return nil, err
	}
	return body, nil
}

// HandleSubmitForm handles POST /api/submit-form
func (h *FormHandlers) HandleSubmitForm(c *gin.Context) {
	marker := h.perfTracker.StartOperation("handler_submit_form")
	defer marker.Complete()

	log := h.logger.WithContext(logging.ChannelSubmission, c.Request.Context())

	body, err := readBody(c)
	if err != nil {
		marker.SetError(err)
		log.Warn("Failed to read submission body", "error", err.Error())
		if errors.Is(err, leads.ErrPayloadTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": msgPayloadTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msgSubmitInvalid})
		return
	}

	submission, err := leads.DecodeSubmission(body)
	if err == nil {
		err = h.submissions.Submit(c.Request.Context(), submission)
	}
	if err != nil {
		marker.SetError(err)
		var stageErr *services.StageError
		var verr *leads.ValidationError
		switch {
		case errors.As(err, &verr):
			log.Info("Submission rejected", "fields", verr.Fields)
			c.JSON(http.StatusBadRequest, gin.H{"error": msgSubmitInvalid, "details": verr.Fields})
		case leads.IsConfiguration(err):
			log.Error("Submission endpoint misconfigured", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgSubmitNoSheet})
		case errors.As(err, &stageErr) && stageErr.Stage == services.StageSheet:
			log.Error("Spreadsheet append failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgSubmitSheetFailed})
		default:
			log.Error("Submission failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgSubmitInternal})
		}
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgSubmitOK})
}

// HandleFormAbandonment handles POST /api/form-abandonment
func (h *FormHandlers) HandleFormAbandonment(c *gin.Context) {
	marker := h.perfTracker.StartOperation("handler_form_abandonment")
	defer marker.Complete()

	log := h.logger.WithContext(logging.ChannelAbandonment, c.Request.Context())

	body, err := readBody(c)
	var outcome services.Outcome
	if err == nil {
		outcome, err = h.abandonment.Handle(c.Request.Context(), body)
	}
	if err != nil {
		marker.SetError(err)
		var verr *leads.ValidationError
		switch {
		case errors.Is(err, leads.ErrPayloadTooLarge):
			log.Warn("Abandonment payload too large")
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": msgPayloadTooLarge})
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": abandonmentValidationMessage(verr)})
		default:
			log.Error("Abandonment processing failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		}
		return
	}

	marker.AddMetadata("outcome", string(outcome))
	marker.SetSuccess(true)
	switch outcome {
	case services.OutcomeDisabled:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": msgFeatureDisabled})
	case services.OutcomeDuplicate:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": msgAlreadyProcessed})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func abandonmentValidationMessage(verr *leads.ValidationError) string {
	if msg, ok := verr.Fields["sessionId"]; ok {
		return msg
	}
	if msg, ok := verr.Fields["partialData"]; ok {
		return msg
	}
	return msgInvalidBody
}

type welcomeRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HandleSendWelcomeEmail handles POST /api/send-welcome-email
func (h *FormHandlers) HandleSendWelcomeEmail(c *gin.Context) {
	marker := h.perfTracker.StartOperation("handler_send_welcome_email")
	defer marker.Complete()

	var req welcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgWelcomeInvalid})
		return
	}

	if err := h.welcome.SendWelcome(c.Request.Context(), req.Email, req.Name); err != nil {
		marker.SetError(err)
		if leads.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgWelcomeInvalid})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgWelcomeInternal})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgWelcomeOK})
}

// HandleSetupSheets handles POST /api/setup-sheets
func (h *FormHandlers) HandleSetupSheets(c *gin.Context) {
	marker := h.perfTracker.StartOperation("handler_setup_sheets")
	defer marker.Complete()

	spreadsheetID, err := h.setup.CreateSpreadsheet(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgSetupFailed})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "spreadsheetId": spreadsheetID})
}
