package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/stretchr/testify/assert"
)

func TestRenderWelcomeEmailEscapesName(t *testing.T) {
	html := RenderWelcomeEmail("<script>alert(1)</script>")

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Get Started")
	assert.Contains(t, html, `href="https://locatrova.com"`)
}

func TestRenderNotificationEmail(t *testing.T) {
	marketing := true
	data := NewNotificationData(&leads.FormSubmission{
		SpaceType:    "villa",
		Name:         "Mario <b>Rossi</b>",
		Email:        "mario@example.com",
		Phone:        "+39 333 1234567",
		City:         "Roma",
		SquareMeters: 250,
		Availability: []string{"Weekend", "Sera/Notte"},
		Notes:        "<script>x</script>",
		Marketing:    &marketing,
	})

	html := RenderNotificationEmail(data)

	assert.Contains(t, html, "Villa/Casale storico")
	assert.Contains(t, html, "Weekend, Sera/Notte")
	assert.Contains(t, html, "250")
	assert.Contains(t, html, "Mario &lt;b&gt;Rossi&lt;/b&gt;")
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "Caratteristiche")
	assert.Contains(t, html, "Sì")
}

func TestRenderNotificationEmailUnknownSpaceType(t *testing.T) {
	html := RenderNotificationEmail(NotificationData{SpaceType: "<i>castle</i>"})

	assert.Contains(t, html, "&lt;i&gt;castle&lt;/i&gt;")
	assert.NotContains(t, html, "<i>castle")
}

func TestFormatFieldValue(t *testing.T) {
	assert.Equal(t, "-", FormatFieldValue("name", nil))
	assert.Equal(t, "Casa/Appartamento", FormatFieldValue("spaceType", "house"))
	assert.Equal(t, "castle", FormatFieldValue("spaceType", "castle"))
	assert.Equal(t, "Weekend, Periodo esteso", FormatFieldValue("availability", []any{"Weekend", "", nil, "Periodo esteso"}))
	assert.Equal(t, "-", FormatFieldValue("availability", []any{"", nil}))
	assert.Equal(t, "120", FormatFieldValue("squareMeters", float64(120)))
	assert.Equal(t, "Mario", FormatFieldValue("name", "Mario"))
}

func TestFormatShortDate(t *testing.T) {
	assert.Equal(t, "03/07/26, 10:05", FormatShortDate("2026-07-03T08:05:09.123Z"))
	assert.Equal(t, "Data non valida", FormatShortDate("yesterday"))
	assert.Equal(t, "Data non valida", FormatShortDate(""))
}

func TestRenderAbandonmentEmail(t *testing.T) {
	record := leads.NewAbandonmentRecord("abc12345xyz", "2026-07-03T08:00:00Z",
		map[string]any{"name": "<script>alert('x')</script>", "email": "", "availability": []any{"Weekend"}},
		time.Date(2026, 7, 3, 8, 30, 0, 0, time.UTC))

	html := RenderAbandonmentEmail(NewAbandonmentData(record))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "Campi Compilati (2)")
	assert.Contains(t, html, "Campi Mancanti (7)")
	assert.Contains(t, html, "03/07/26, 10:00")
	assert.Contains(t, html, "03/07/26, 10:30")
	assert.Contains(t, html, "&bull; Email")
	assert.Contains(t, html, "&bull; Metri Quadrati")
	assert.NotContains(t, html, "Nessun campo compilato")
}

func TestRenderAbandonmentEmailNothingCompleted(t *testing.T) {
	record := leads.NewAbandonmentRecord("s", "not a date", map[string]any{"notes": ""}, time.Now())

	html := RenderAbandonmentEmail(NewAbandonmentData(record))

	assert.Contains(t, html, "Nessun campo compilato")
	assert.Contains(t, html, "Data non valida")
	assert.Equal(t, len(leads.FieldUniverse), strings.Count(html, "&bull;"))
}

func TestAbandonmentSubject(t *testing.T) {
	assert.Equal(t, "Form abbandonato - abc12345", AbandonmentSubject("abc12345xyz"))
	assert.Equal(t, "Form abbandonato - abc", AbandonmentSubject("abc"))
}

func TestGetButtonRejectsUnsafeURL(t *testing.T) {
	html := GetButton(ButtonProps{Text: "Go", URL: "javascript:alert(1)"})
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, `href="#"`)
}

func TestRenderingIsDeterministic(t *testing.T) {
	assert.Equal(t, RenderWelcomeEmail("Anna"), RenderWelcomeEmail("Anna"))
}
