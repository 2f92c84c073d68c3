package templates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
)

var fieldLabels = map[string]string{
	"spaceType":       "Tipo di Spazio",
	"name":            "Nome",
	"email":           "Email",
	"phone":           "Telefono",
	"city":            "Città",
	"squareMeters":    "Metri Quadrati",
	"availability":    "Disponibilità",
	"characteristics": "Caratteristiche",
	"notes":           "Note",
}

// FieldLabel returns the display label of a form field, or the field name.
func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// AbandonmentSubject builds the subject line from the session id prefix.
func AbandonmentSubject(sessionID string) string {
	return "Form abbandonato - " + leads.ShortSessionID(sessionID)
}

// AbandonmentData is the operator-facing view of an abandoned form.
type AbandonmentData struct {
	StartedAt       string // as sent by the client
	AbandonedAt     time.Time
	PartialData     map[string]any
	CompletedFields []string
	MissingFields   []string
}

// NewAbandonmentData maps a classified record onto the template data.
func NewAbandonmentData(r *leads.AbandonmentRecord) AbandonmentData {
	return AbandonmentData{
		StartedAt:       r.StartedAt,
		AbandonedAt:     r.AbandonedAt,
		PartialData:     r.PartialData,
		CompletedFields: r.CompletedFields,
		MissingFields:   r.MissingFields,
	}
}

// FormatShortDate renders an RFC 3339 timestamp as a short it-IT date in Rome.
func FormatShortDate(value string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return "Data non valida"
	}
	return formatShortTime(t)
}

func formatShortTime(t time.Time) string {
	return t.In(leads.Rome).Format("02/01/06, 15:04")
}

// FormatFieldValue renders a partial-form value as display text. The result
// is plain text; escaping happens when it is placed in a template.
func FormatFieldValue(field string, value any) string {
	if value == nil {
		return "-"
	}

	if field == "spaceType" {
		return leads.SpaceTypeLabel(scalarString(value))
	}

	if items, ok := value.([]any); ok {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if item == nil {
				continue
			}
			if s := scalarString(item); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "-"
		}
		return strings.Join(parts, ", ")
	}

	return scalarString(value)
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// RenderAbandonmentEmail summarizes which fields were filled before the form was left.
func RenderAbandonmentEmail(data AbandonmentData) string {
	var content strings.Builder
	content.WriteString(GetHeading(1, "⚠️ Form Abbandonato"))
	content.WriteString(GetParagraph("Un utente ha iniziato a compilare il form ma non ha completato l'invio."))
	content.WriteString(GetNotice(
		NoticeLine{Label: "Iniziato", Value: FormatShortDate(data.StartedAt)},
		NoticeLine{Label: "Abbandonato", Value: formatShortTime(data.AbandonedAt)},
	))
	content.WriteString(Divider)

	content.WriteString(GetHeading(2, fmt.Sprintf("✅ Campi Compilati (%d)", len(data.CompletedFields))))
	if len(data.CompletedFields) == 0 {
		content.WriteString(GetParagraph("Nessun campo compilato"))
	}
	for _, field := range data.CompletedFields {
		content.WriteString(GetField(FieldLabel(field), FormatFieldValue(field, data.PartialData[field])))
	}
	content.WriteString(Divider)

	content.WriteString(GetHeading(2, fmt.Sprintf("❌ Campi Mancanti (%d)", len(data.MissingFields))))
	missing := make([]string, 0, len(data.MissingFields))
	for _, field := range data.MissingFields {
		missing = append(missing, FieldLabel(field))
	}
	content.WriteString(GetBulletList(missing))
	content.WriteString(Divider)

	content.WriteString(GetParagraph("Considera di contattare l'utente per capire cosa ha causato l'abbandono del form."))

	return GetEmailLayout(EmailLayoutProps{
		Title:     "Form Abbandonato",
		Preheader: "Un utente ha abbandonato il form",
		Content:   content.String(),
	})
}
