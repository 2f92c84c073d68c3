package templates

import "strings"

const WelcomeSubject = "Welcome to Locatrova!"

// RenderWelcomeEmail greets a new owner by name.
func RenderWelcomeEmail(name string) string {
	var content strings.Builder
	content.WriteString(GetParagraph("Hi " + name + ","))
	content.WriteString(GetParagraph("Welcome to Locatrova, the platform that connects property owners with creative productions and events."))
	content.WriteString(GetButton(ButtonProps{
		Text: "Get Started",
		URL:  SiteURL,
	}))

	return GetEmailLayout(EmailLayoutProps{
		Title:     WelcomeSubject,
		Preheader: WelcomeSubject,
		Content:   content.String(),
	})
}
