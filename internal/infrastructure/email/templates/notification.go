package templates

import (
	"strings"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
)

const NotificationSubject = "Nuova richiesta di informazioni"

// NotificationData is the operator-facing view of a completed submission.
type NotificationData struct {
	Name            string
	Email           string
	Phone           string
	City            string
	SpaceType       string // raw code; rendered through the label table
	SquareMeters    string
	Availability    []string
	Characteristics string
	Notes           string
	Marketing       bool
}

// NewNotificationData maps a validated submission onto the template data.
func NewNotificationData(s *leads.FormSubmission) NotificationData {
	return NotificationData{
		Name:            s.Name,
		Email:           s.Email,
		Phone:           s.Phone,
		City:            s.City,
		SpaceType:       s.SpaceType,
		SquareMeters:    leads.FormatSquareMeters(s.SquareMeters),
		Availability:    s.Availability,
		Characteristics: s.Characteristics,
		Notes:           s.Notes,
		Marketing:       s.MarketingConsent(),
	}
}

// RenderNotificationEmail lists every submitted field for the operator.
func RenderNotificationEmail(data NotificationData) string {
	var content strings.Builder
	content.WriteString(GetHeading(1, NotificationSubject))
	content.WriteString(GetField("Nome", data.Name))
	content.WriteString(GetField("Email", data.Email))
	content.WriteString(GetField("Telefono", data.Phone))
	content.WriteString(GetField("Città", data.City))
	content.WriteString(GetField("Tipo di spazio", leads.SpaceTypeLabel(data.SpaceType)))
	content.WriteString(GetField("Metri quadrati", data.SquareMeters))
	content.WriteString(GetField("Disponibilità", strings.Join(data.Availability, ", ")))
	if data.Characteristics != "" {
		content.WriteString(GetField("Caratteristiche", data.Characteristics))
	}
	if data.Notes != "" {
		content.WriteString(GetField("Note", data.Notes))
	}
	content.WriteString(GetField("Marketing", leads.YesNo(data.Marketing)))

	return GetEmailLayout(EmailLayoutProps{
		Title:     NotificationSubject,
		Preheader: NotificationSubject + " da " + data.Name,
		Content:   content.String(),
	})
}
