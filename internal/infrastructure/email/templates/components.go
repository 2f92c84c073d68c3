package templates

import (
	"bytes"
	"html/template"
	"log"
	"net/url"
	"strings"
)

// SiteURL is the public landing page linked from every email.
const SiteURL = "https://locatrova.com"

// BrandColor is the Locatrova orange used for buttons.
const BrandColor = "#FF6B35"

type ButtonProps struct {
	Text            string
	URL             string
	BackgroundColor string
	TextColor       string
}

type buttonTemplateData struct {
	BackgroundColor string
	URL             string
	TextColor       string
	Text            string
}

type fieldTemplateData struct {
	Label string
	Value string
}

// NoticeLine is one bold-labelled line of a notice box.
type NoticeLine struct {
	Label string
	Value string
}

type headingTemplateData struct {
	Level int
	Text  string
}

var (
	buttonTemplate = template.Must(template.New("emailButton").Parse(`
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" class="btn btn-primary" style="border-collapse: separate; box-sizing: border-box; width: 100%; min-width: 100%;" width="100%">
      <tbody>
        <tr>
          <td align="left" style="vertical-align: top; padding-bottom: 16px;" valign="top">
            <a href="{{.URL}}" target="_blank" style="border-radius: 3px; box-sizing: border-box; cursor: pointer; display: block; font-size: 16px; margin: 0; padding: 12px; text-align: center; text-decoration: none; background-color: {{.BackgroundColor}}; color: {{.TextColor}};">{{.Text}}</a>
          </td>
        </tr>
      </tbody>
    </table>`))

	paragraphTemplate = template.Must(template.New("emailParagraph").Parse(`<p style="font-size: 16px; line-height: 26px; font-weight: normal; margin: 0; margin-bottom: 16px;">{{.}}</p>`))

	headingTemplate = template.Must(template.New("emailHeading").Parse(`{{if eq .Level 1}}<h1 style="font-size: 24px; letter-spacing: -0.5px; line-height: 1.3; font-weight: 600; color: #484848; margin: 0 0 16px;">{{.Text}}</h1>{{else}}<h2 style="font-size: 18px; line-height: 1.3; font-weight: 600; color: #484848; margin: 16px 0 8px;">{{.Text}}</h2>{{end}}`))

	fieldTemplate = template.Must(template.New("emailField").Parse(`<div style="margin-top: 16px;"><p style="font-size: 12px; line-height: 1.4; color: #6a737d; font-weight: 600; margin: 0 0 4px;">{{.Label}}:</p><p style="font-size: 14px; line-height: 1.4; color: #484848; margin: 0 0 16px;">{{.Value}}</p></div>`))

	listTemplate = template.Must(template.New("emailList").Parse(`<div style="margin: 0 0 16px;">{{range .}}<p style="font-size: 14px; line-height: 1.4; color: #b42318; margin: 0 0 4px;">&bull; {{.}}</p>{{end}}</div>`))

	noticeTemplate = template.Must(template.New("emailNotice").Parse(`<div style="background-color: #f6f9fc; border-radius: 4px; padding: 12px 16px; margin: 0 0 16px;">{{range .}}<p style="font-size: 14px; line-height: 1.4; color: #484848; margin: 0 0 4px;"><strong>{{.Label}}:</strong> {{.Value}}</p>{{end}}</div>`))
)

// Divider is the horizontal rule between email sections.
const Divider = `<hr style="border: none; border-top: 1px solid #e6ebf1; margin: 20px 0;">`

func execute(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		log.Printf("Error executing email %s template: %v", t.Name(), err)
		return `<div style="color: red;">Template error</div>`
	}
	return buf.String()
}

func GetButton(props ButtonProps) string {
	backgroundColor := props.BackgroundColor
	if backgroundColor == "" {
		backgroundColor = BrandColor
	}

	textColor := props.TextColor
	if textColor == "" {
		textColor = "#ffffff"
	}

	sanitizedURL := sanitizeEmailURL(props.URL)
	if sanitizedURL == "" {
		log.Printf("Invalid or unsafe URL in email button: %s", props.URL)
		sanitizedURL = "#"
	}

	return execute(buttonTemplate, buttonTemplateData{
		BackgroundColor: sanitizeColor(backgroundColor),
		URL:             sanitizedURL,
		TextColor:       sanitizeColor(textColor),
		Text:            props.Text,
	})
}

// GetParagraph renders escaped paragraph text.
func GetParagraph(text string) string {
	return execute(paragraphTemplate, text)
}

// GetHeading renders an h1 for level 1 and an h2 otherwise.
func GetHeading(level int, text string) string {
	return execute(headingTemplate, headingTemplateData{Level: level, Text: text})
}

// GetField renders a label/value pair.
func GetField(label, value string) string {
	return execute(fieldTemplate, fieldTemplateData{Label: label, Value: value})
}

// GetBulletList renders one bullet per item.
func GetBulletList(items []string) string {
	return execute(listTemplate, items)
}

// GetNotice renders a shaded box of bold-labelled lines.
func GetNotice(lines ...NoticeLine) string {
	return execute(noticeTemplate, lines)
}

// sanitizeEmailURL validates and sanitizes URLs for email use
func sanitizeEmailURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		log.Printf("Invalid email URL: %s, error: %v", rawURL, err)
		return ""
	}

	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" && scheme != "mailto" {
		log.Printf("Blocked unsafe URL scheme in email: %s", scheme)
		return ""
	}

	return parsedURL.String()
}

// sanitizeColor validates and sanitizes hex color values
func sanitizeColor(color string) string {
	color = strings.TrimSpace(color)
	if !strings.HasPrefix(color, "#") {
		return "#000000"
	}

	hex := color[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return "#000000"
	}

	for _, char := range hex {
		if !((char >= '0' && char <= '9') || (char >= 'a' && char <= 'f') || (char >= 'A' && char <= 'F')) {
			return "#000000"
		}
	}

	return color
}
