// Package templates renders the transactional email bodies. Every function
// is pure: given the same data it returns the same HTML, and user-supplied
// text is escaped by html/template before interpolation.
package templates

import (
	"bytes"
	"html/template"
	"log"
)

type EmailLayoutProps struct {
	Title      string
	Preheader  string
	Content    string
	FooterText string
	SiteURL    string
}

// Internal template data structure with safe HTML typing
type emailTemplateData struct {
	Title      string
	Preheader  string
	Content    template.HTML // components are escaped when rendered
	FooterText string
	SiteURL    string
}

var emailLayoutTemplate = template.Must(template.New("emailLayout").Parse(`
<!doctype html>
<html lang="it">
  <head>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8">
    <title>{{.Title}}</title>
    <style media="all" type="text/css">
      @media only screen and (max-width: 640px) {
        .main p, .main td, .main span { font-size: 16px !important; }
        .wrapper { padding: 8px !important; }
        .container { padding: 0 !important; padding-top: 8px !important; width: 100% !important; }
        .main { border-left-width: 0 !important; border-radius: 0 !important; border-right-width: 0 !important; }
      }
    </style>
  </head>
  <body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Ubuntu, sans-serif; -webkit-font-smoothing: antialiased; font-size: 16px; line-height: 1.4; background-color: #f6f9fc; margin: 0; padding: 0;">
    <span class="preheader" style="color: transparent; display: none; height: 0; max-height: 0; max-width: 0; opacity: 0; overflow: hidden; mso-hide: all; visibility: hidden; width: 0;">{{.Preheader}}</span>
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" class="body" style="border-collapse: separate; background-color: #f6f9fc; width: 100%;" width="100%" bgcolor="#f6f9fc">
      <tr>
        <td>&nbsp;</td>
        <td class="container" style="vertical-align: top; max-width: 600px; padding: 0; padding-top: 24px; width: 600px; margin: 0 auto;" width="600" valign="top">
          <table role="presentation" border="0" cellpadding="0" cellspacing="0" class="main" style="border-collapse: separate; background: #ffffff; border: 1px solid #eaebed; border-radius: 8px; width: 100%;" width="100%">
            <tr>
              <td class="wrapper" style="vertical-align: top; box-sizing: border-box; padding: 24px;" valign="top">
                {{.Content}}
              </td>
            </tr>
          </table>
          <div class="footer" style="clear: both; padding-top: 24px; text-align: center; width: 100%; color: #8898aa; font-size: 12px;">
            {{.FooterText}}<br><a href="{{.SiteURL}}" style="color: #8898aa; text-decoration: underline;">locatrova.com</a>
          </div>
        </td>
        <td>&nbsp;</td>
      </tr>
    </table>
  </body>
</html>`))

// GetEmailLayout wraps pre-rendered component HTML in the shared frame.
func GetEmailLayout(props EmailLayoutProps) string {
	title := props.Title
	if title == "" {
		title = "Locatrova"
	}

	footerText := props.FooterText
	if footerText == "" {
		footerText = "Locatrova - location per produzioni ed eventi"
	}

	siteURL := sanitizeEmailURL(props.SiteURL)
	if siteURL == "" {
		siteURL = SiteURL
	}

	templateData := emailTemplateData{
		Title:      title,
		Preheader:  props.Preheader,
		Content:    template.HTML(props.Content),
		FooterText: footerText,
		SiteURL:    siteURL,
	}

	var buf bytes.Buffer
	if err := emailLayoutTemplate.Execute(&buf, templateData); err != nil {
		log.Printf("Error executing email layout template: %v", err)
		return "<html><body>Template execution error</body></html>"
	}

	return buf.String()
}
