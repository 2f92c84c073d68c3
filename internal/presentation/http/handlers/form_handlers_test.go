package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/locatrova/locatrova-go/internal/application/services"
	"github.com/locatrova/locatrova-go/internal/infrastructure/caching/registry"
	"github.com/locatrova/locatrova-go/internal/infrastructure/email"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/logging"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/performance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSheets struct {
	mu        sync.Mutex
	rows      [][]string
	appendErr error
	createErr error
}

func (s *stubSheets) Append(_ context.Context, _ string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.rows = append(s.rows, row)
	return nil
}

func (s *stubSheets) Create(context.Context, string, string, []string) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	return "sheet-new", nil
}

type stubMailer struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (m *stubMailer) SendMail(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testEnv struct {
	engine  *gin.Engine
	sheets  *stubSheets
	mailer  *stubMailer
	tracker *performance.Tracker
}

type envOptions struct {
	spreadsheetID string
	enabled       bool
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.NewDiscardLogger()
	tracker := performance.NewTracker(nil, nil)
	sheets := &stubSheets{}
	mailer := &stubMailer{}
	reg := registry.NewMemoryRegistry(24 * time.Hour)

	h := NewFormHandlers(
		services.NewSubmissionService(sheets, mailer, services.SubmissionConfig{
			SpreadsheetID:         opts.spreadsheetID,
			NotificationRecipient: "ops@example.com",
		}, logger),
		services.NewAbandonmentService(reg, mailer, services.AbandonmentConfig{
			Enabled:         opts.enabled,
			Recipient:       "ops@example.com",
			MaxPayloadBytes: 50000,
		}, logger),
		services.NewWelcomeService(mailer, logger),
		services.NewSetupService(sheets, logger),
		logger,
		tracker,
	)
	health := NewHealthHandlers(reg, tracker)

	r := gin.New()
	r.POST("/api/submit-form", h.HandleSubmitForm)
	r.POST("/api/form-abandonment", h.HandleFormAbandonment)
	r.POST("/api/send-welcome-email", h.HandleSendWelcomeEmail)
	r.POST("/api/setup-sheets", h.HandleSetupSheets)
	r.GET("/api/health", health.HandleHealth)

	return &testEnv{engine: r, sheets: sheets, mailer: mailer, tracker: tracker}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

const validForm = `{
	"spaceType": "house",
	"name": "Mario Rossi",
	"email": "mario@example.com",
	"phone": "3331234567",
	"city": "Roma",
	"squareMeters": 120,
	"availability": ["Weekend"],
	"characteristics": "Terrazza",
	"privacy": true,
	"marketing": true
}`

func TestSubmitFormSuccess(t *testing.T) {
	env := newTestEnv(t, envOptions{spreadsheetID: "sheet-1"})

	code, body := env.do(t, http.MethodPost, "/api/submit-form", validForm)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Richiesta inviata con successo!", body["message"])
	require.Len(t, env.sheets.rows, 1)
	assert.Len(t, env.sheets.rows[0], 11)
	assert.Equal(t, "Casa/Appartamento", env.sheets.rows[0][1])
	assert.Equal(t, "Sì", env.sheets.rows[0][10])
	assert.Len(t, env.mailer.sent, 1)

	stats, ok := env.tracker.GetStats("handler_submit_form")
	require.True(t, ok)
	assert.Equal(t, 1, stats.Count)
}

func TestSubmitFormValidation(t *testing.T) {
	bodies := map[string]string{
		"malformed":        `{"name":`,
		"privacy false":    strings.Replace(validForm, `"privacy": true`, `"privacy": false`, 1),
		"too few meters":   strings.Replace(validForm, `"squareMeters": 120`, `"squareMeters": 10`, 1),
		"missing email":    strings.Replace(validForm, `"email": "mario@example.com",`, ``, 1),
		"no marketing key": strings.Replace(validForm, `,
	"marketing": true`, ``, 1),
	}

	for name, payload := range bodies {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{spreadsheetID: "sheet-1"})

			code, body := env.do(t, http.MethodPost, "/api/submit-form", payload)

			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "Dati del form non validi. Controlla i campi e riprova.", body["error"])
			assert.Empty(t, env.sheets.rows)
			assert.Empty(t, env.mailer.sent)
		})
	}
}

func TestSubmitFormWithoutSpreadsheet(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	code, body := env.do(t, http.MethodPost, "/api/submit-form", validForm)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body["error"], "GOOGLE_SHEETS_ID")
	assert.Empty(t, env.mailer.sent)
}

func TestSubmitFormSheetFailure(t *testing.T) {
	env := newTestEnv(t, envOptions{spreadsheetID: "sheet-1"})
	env.sheets.appendErr = errors.New("permission denied")

	code, body := env.do(t, http.MethodPost, "/api/submit-form", validForm)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body["error"], "Errore nel salvataggio dei dati")
	assert.Empty(t, env.mailer.sent)
}

func TestSubmitFormEmailFailure(t *testing.T) {
	env := newTestEnv(t, envOptions{spreadsheetID: "sheet-1"})
	env.mailer.err = errors.New("resend down")

	code, body := env.do(t, http.MethodPost, "/api/submit-form", validForm)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Errore interno del server. Riprova più tardi.", body["error"])
	assert.Len(t, env.sheets.rows, 1)
}

func TestFormAbandonmentFlow(t *testing.T) {
	env := newTestEnv(t, envOptions{enabled: true})
	beacon := `{"sessionId":"abc123","startedAt":"2026-07-03T07:55:00Z","partialData":{"name":"Mario","email":""}}`

	code, body := env.do(t, http.MethodPost, "/api/form-abandonment", beacon)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "message")

	code, body = env.do(t, http.MethodPost, "/api/form-abandonment", beacon)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Already processed", body["message"])

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "Form abbandonato - abc123", env.mailer.sent[0].Subject)
}

func TestFormAbandonmentGuards(t *testing.T) {
	oversized := fmt.Sprintf(`{"sessionId":"s","partialData":{"notes":"%s"}}`, strings.Repeat("a", 50001))
	huge := fmt.Sprintf(`{"notes":"%s"}`, strings.Repeat("a", MaxBodyBytes))

	tests := []struct {
		name    string
		body    string
		enabled bool
		status  int
		field   string
		want    string
	}{
		{"oversized", oversized, true, http.StatusRequestEntityTooLarge, "error", "Payload too large"},
		{"beyond hard cap", huge, true, http.StatusRequestEntityTooLarge, "error", "Payload too large"},
		{"missing session", `{"partialData":{"name":"x"}}`, true, http.StatusBadRequest, "error", "sessionId is required"},
		{"numeric session", `{"sessionId":42,"partialData":{"name":"x"}}`, true, http.StatusBadRequest, "error", "sessionId is required"},
		{"empty partial data", `{"sessionId":"s","partialData":{}}`, true, http.StatusBadRequest, "error", "partialData must contain at least one field"},
		{"malformed", `{"sessionId":`, true, http.StatusBadRequest, "error", "Invalid request body"},
		{"disabled", `{"sessionId":"s","partialData":{"name":"x"}}`, false, http.StatusOK, "message", "Feature disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{enabled: tt.enabled})

			code, body := env.do(t, http.MethodPost, "/api/form-abandonment", tt.body)

			assert.Equal(t, tt.status, code)
			assert.Equal(t, tt.want, body[tt.field])
			assert.Empty(t, env.mailer.sent)
		})
	}
}

func TestFormAbandonmentMailFailure(t *testing.T) {
	env := newTestEnv(t, envOptions{enabled: true})
	env.mailer.err = errors.New("down")

	code, body := env.do(t, http.MethodPost, "/api/form-abandonment", `{"sessionId":"s1","partialData":{"name":"x"}}`)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body["error"])
}

func TestSendWelcomeEmail(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	code, body := env.do(t, http.MethodPost, "/api/send-welcome-email", `{"email":"anna@example.com","name":"Anna"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Welcome email sent successfully!", body["message"])

	code, body = env.do(t, http.MethodPost, "/api/send-welcome-email", `{"email":"anna@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Email and name are required.", body["error"])

	env.mailer.err = errors.New("down")
	code, body = env.do(t, http.MethodPost, "/api/send-welcome-email", `{"email":"anna@example.com","name":"Anna"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error.", body["error"])
}

func TestSetupSheets(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	code, body := env.do(t, http.MethodPost, "/api/setup-sheets", ``)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "sheet-new", body["spreadsheetId"])

	env.sheets.createErr = errors.New("quota")
	code, body = env.do(t, http.MethodPost, "/api/setup-sheets", ``)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotEmpty(t, body["error"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, envOptions{enabled: true})
	env.do(t, http.MethodPost, "/api/form-abandonment", `{"sessionId":"s1","partialData":{"name":"x"}}`)

	code, body := env.do(t, http.MethodGet, "/api/health", ``)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["registry"].(map[string]any)["trackedSessions"])
	assert.Contains(t, body["performance"].(map[string]any)["operations"], "handler_form_abandonment")
}
