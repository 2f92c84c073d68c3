package leads

import (
	"bytes"
	"encoding/json"
	"time"
)

// FieldUniverse lists the wizard fields tracked for abandonment, in display order.
var FieldUniverse = []string{
	"spaceType",
	"name",
	"email",
	"phone",
	"city",
	"squareMeters",
	"availability",
	"characteristics",
	"notes",
}

// FormSession identifies one in-progress form-filling attempt in a browser tab.
type FormSession struct {
	SessionID string `json:"sessionId"`
	StartedAt string `json:"startedAt"`
	Submitted bool   `json:"submitted"`
}

// AbandonmentRequest is the decoded beacon body sent when a started form is left.
type AbandonmentRequest struct {
	SessionID   string
	StartedAt   string
	PartialData map[string]any
}

const (
	MsgSessionIDRequired   = "sessionId is required"
	MsgPartialDataRequired = "partialData must contain at least one field"
)

// DecodeAbandonment parses a beacon body. sessionId must be a non-empty
// string and partialData a non-empty object; startedAt is passed through
// when it is a string.
func DecodeAbandonment(body []byte) (*AbandonmentRequest, error) {
	var raw struct {
		SessionID   any `json:"sessionId"`
		StartedAt   any `json:"startedAt"`
		PartialData any `json:"partialData"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"body": err.Error()}}
	}

	sessionID, ok := raw.SessionID.(string)
	if !ok || sessionID == "" {
		return nil, &ValidationError{Fields: map[string]string{"sessionId": MsgSessionIDRequired}}
	}

	partialData, ok := raw.PartialData.(map[string]any)
	if !ok || len(partialData) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"partialData": MsgPartialDataRequired}}
	}

	startedAt, _ := raw.StartedAt.(string)

	return &AbandonmentRequest{
		SessionID:   sessionID,
		StartedAt:   startedAt,
		PartialData: partialData,
	}, nil
}

// PayloadSize measures a JSON body the way it would be re-serialized:
// insignificant whitespace is not counted. Bodies that are not valid JSON
// are measured raw.
func PayloadSize(body []byte) int {
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, body); err != nil {
		return len(body)
	}
	return compacted.Len()
}

// AbandonmentRecord is the request-scoped view of an abandoned form.
type AbandonmentRecord struct {
	SessionID       string
	StartedAt       string
	AbandonedAt     time.Time
	PartialData     map[string]any
	CompletedFields []string
	MissingFields   []string
}

// IsFilled applies the field completion rule: a non-empty array, or a scalar
// that is not absent, null, the empty string or numeric zero.
func IsFilled(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// ClassifyFields partitions FieldUniverse into completed and missing fields.
func ClassifyFields(partialData map[string]any) (completed, missing []string) {
	completed = make([]string, 0, len(FieldUniverse))
	missing = make([]string, 0, len(FieldUniverse))
	for _, field := range FieldUniverse {
		if IsFilled(partialData[field]) {
			completed = append(completed, field)
		} else {
			missing = append(missing, field)
		}
	}
	return completed, missing
}

// NewAbandonmentRecord classifies partialData and stamps the abandonment time.
func NewAbandonmentRecord(sessionID, startedAt string, partialData map[string]any, abandonedAt time.Time) *AbandonmentRecord {
	completed, missing := ClassifyFields(partialData)
	return &AbandonmentRecord{
		SessionID:       sessionID,
		StartedAt:       startedAt,
		AbandonedAt:     abandonedAt,
		PartialData:     partialData,
		CompletedFields: completed,
		MissingFields:   missing,
	}
}

// ShortSessionID returns the first eight characters used in email subjects.
func ShortSessionID(sessionID string) string {
	if len(sessionID) <= 8 {
		return sessionID
	}
	return sessionID[:8]
}
