package formclient

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SessionKey is the storage key holding the JSON encoded FormSession.
const SessionKey = "formSession"

// isoMillis matches the millisecond ISO-8601 stamps produced by browsers.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// FormSession identifies one browsing session's pass through the form.
type FormSession struct {
	SessionID string `json:"sessionId"`
	StartedAt string `json:"startedAt"`
	Submitted bool   `json:"submitted"`
}

// Tracker stamps and persists the form session. Storage failures never
// surface as errors: the session is reported as absent and a warning is
// logged, which disables abandonment tracking for the tab.
type Tracker struct {
	storage Storage
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

func NewTracker(storage Storage, logger *slog.Logger) *Tracker {
	return &Tracker{
		storage: storage,
		logger:  orDiscard(logger),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Init returns the stored session, creating and persisting one when none
// exists. It returns nil when storage is unusable.
func (t *Tracker) Init() *FormSession {
	if existing := t.Get(); existing != nil {
		return existing
	}

	session := &FormSession{
		SessionID: t.newID(),
		StartedAt: t.now().UTC().Format(isoMillis),
	}
	if err := t.save(session); err != nil {
		t.logger.Warn("Session storage not available, form abandonment tracking disabled", "error", err.Error())
		return nil
	}
	return session
}

// Get returns the stored session, or nil when absent, corrupted or unreadable.
func (t *Tracker) Get() *FormSession {
	raw, ok, err := t.storage.GetItem(SessionKey)
	if err != nil {
		t.logger.Warn("Session storage not accessible", "error", err.Error())
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var session FormSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil || session.SessionID == "" {
		return nil
	}
	return &session
}

// MarkSubmitted flags the current session as submitted. No-op without a session.
func (t *Tracker) MarkSubmitted() {
	session := t.Get()
	if session == nil || session.Submitted {
		return
	}
	session.Submitted = true
	if err := t.save(session); err != nil {
		t.logger.Warn("Could not mark form as submitted", "error", err.Error())
	}
}

// IsSubmitted reports whether the current session was submitted.
func (t *Tracker) IsSubmitted() bool {
	session := t.Get()
	return session != nil && session.Submitted
}

// Clear removes the stored session.
func (t *Tracker) Clear() {
	if err := t.storage.RemoveItem(SessionKey); err != nil {
		t.logger.Warn("Could not clear form session", "error", err.Error())
	}
}

func (t *Tracker) save(session *FormSession) error {
	encoded, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return t.storage.SetItem(SessionKey, string(encoded))
}
