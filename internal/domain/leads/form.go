// Package leads defines the lead-capture entities: the completed form
// submission, the partial-form abandonment record and the browser form
// session, together with the capability interfaces that persist and
// deduplicate them.
package leads

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
)

// SpaceType is the category code chosen in the first wizard step.
type SpaceType string

const (
	SpaceHouse     SpaceType = "house"
	SpaceOffice    SpaceType = "office"
	SpaceWarehouse SpaceType = "warehouse"
	SpaceVilla     SpaceType = "villa"
	SpaceStudio    SpaceType = "studio"
	SpaceOutdoor   SpaceType = "outdoor"
	SpaceEvents    SpaceType = "events"
	SpaceUnique    SpaceType = "unique"
)

var spaceTypeLabels = map[SpaceType]string{
	SpaceHouse:     "Casa/Appartamento",
	SpaceOffice:    "Ufficio/Spazio commerciale",
	SpaceWarehouse: "Spazio industriale/Warehouse",
	SpaceVilla:     "Villa/Casale storico",
	SpaceStudio:    "Studio/Spazio creativo",
	SpaceOutdoor:   "Spazio esterno/Giardino",
	SpaceEvents:    "Sala eventi/Meeting room",
	SpaceUnique:    "Location unica/Particolare",
}

// SpaceTypeLabel maps a code to its display label, falling back to the raw code.
func SpaceTypeLabel(code string) string {
	if label, ok := spaceTypeLabels[SpaceType(code)]; ok {
		return label
	}
	return code
}

// SheetHeader is the fixed first row of the requests spreadsheet.
var SheetHeader = []string{
	"Data",
	"Tipo Spazio",
	"Nome",
	"Email",
	"Telefono",
	"Città",
	"Metri Quadrati",
	"Disponibilità",
	"Caratteristiche",
	"Note",
	"Marketing Consent",
}

const (
	SpreadsheetTitle = "Locatrova - Richieste Spazi"
	SheetTitle       = "Richieste"
)

// FormSubmission is the completed four-step wizard payload.
type FormSubmission struct {
	SpaceType       string   `json:"spaceType" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Phone           string   `json:"phone" binding:"required"`
	City            string   `json:"city" binding:"required"`
	SquareMeters    float64  `json:"squareMeters" binding:"gte=20,lte=1000"`
	Availability    []string `json:"availability" binding:"required"`
	Characteristics string   `json:"characteristics,omitempty"`
	Notes           string   `json:"notes,omitempty" binding:"max=500"`
	Privacy         bool     `json:"privacy" binding:"required"`
	Marketing       *bool    `json:"marketing" binding:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"spaceType":    "Tipo di spazio richiesto",
	"name":         "Nome richiesto",
	"email":        "Email non valida",
	"phone":        "Telefono richiesto",
	"city":         "Città richiesta",
	"squareMeters": "I metri quadrati devono essere tra 20 e 1000",
	"availability": "Disponibilità richiesta",
	"notes":        "Le note non possono superare i 500 caratteri",
	"privacy":      "Devi accettare i termini e condizioni",
	"marketing":    "Consenso marketing richiesto",
}

// Validate checks every field constraint and reports all failures at once.
func (s *FormSubmission) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Fields: map[string]string{"body": err.Error()}}
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = "valore non valido"
		}
		verr.add(fe.Field(), msg)
	}
	return verr
}

// MarketingConsent reports the marketing opt-in, false when absent.
func (s *FormSubmission) MarketingConsent() bool {
	return s.Marketing != nil && *s.Marketing
}

// DecodeSubmission parses and validates a submission body. Malformed JSON
// and type mismatches are reported as validation errors.
func DecodeSubmission(body []byte) (*FormSubmission, error) {
	var submission FormSubmission
	decoder := json.NewDecoder(bytes.NewReader(body))
	if err := decoder.Decode(&submission); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"body": err.Error()}}
	}
	if err := submission.Validate(); err != nil {
		return nil, err
	}
	return &submission, nil
}

// FormatSquareMeters renders the surface without a trailing ".0".
func FormatSquareMeters(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// YesNo renders a consent flag the way the spreadsheet expects it.
func YesNo(v bool) string {
	if v {
		return "Sì"
	}
	return "No"
}

// Rome is the time zone every user-facing timestamp is rendered in.
var Rome = mustLoadLocation("Europe/Rome")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SheetTimestamp formats t like an it-IT locale string in Europe/Rome.
func SheetTimestamp(t time.Time) string {
	return t.In(Rome).Format("2/1/2006, 15:04:05")
}

// SheetRow builds the 11-column spreadsheet row in SheetHeader order.
func SheetRow(s *FormSubmission, now time.Time) []string {
	return []string{
		SheetTimestamp(now),
		SpaceTypeLabel(s.SpaceType),
		s.Name,
		s.Email,
		s.Phone,
		s.City,
		FormatSquareMeters(s.SquareMeters),
		strings.Join(s.Availability, ", "),
		s.Characteristics,
		s.Notes,
		YesNo(s.MarketingConsent()),
	}
}
