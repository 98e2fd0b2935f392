package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

const (
	// SubjectParticipant confirms the registrant's place.
	SubjectParticipant = "Registration Confirmed: Youth Gita Summit 2025"
	// SubjectAdmin alerts the operations address about a new registration.
	SubjectAdmin = "New Participant Registration | Youth Gita Summit"

	themeColor = "#b45309" // amber 700
)

var participantTmpl = template.Must(template.New("participant").Parse(`
<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: auto; border: 1px solid #ddd; border-radius: 8px;">
  <div style="background-color: {{.ThemeColor}}; color: white; padding: 20px; border-top-left-radius: 8px; border-top-right-radius: 8px;">
    <h1 style="margin: 0; text-align: center;">Youth Gita Summit 2025</h1>
  </div>
  <div style="padding: 20px;">
    <h2 style="color: {{.ThemeColor}};">Welcome, {{.Name}}! Your Journey Begins.</h2>
    <p>Thank you for registering for the Youth Gita Summit 2025. We are honored to confirm your place and look forward to welcoming you to this transformative experience.</p>
    <p>Please keep this confirmation for your records. Your unique Registration ID is:</p>
    <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; text-align: center; margin: 20px 0;">
      <strong style="font-size: 1.2em; color: #333;">{{.RegistrationID}}</strong>
    </div>
    <h3 style="color: {{.ThemeColor}};">What's Next?</h3>
    <p>We will be in touch with further details, including the event schedule and other important information, as we get closer to the summit date. Please keep an eye on your inbox.</p>
    <p>With warm regards,</p>
    <p><strong>GIEO Gita Team</strong></p>
  </div>
  <div style="background-color: #f5f5f5; color: #888; padding: 15px; text-align: center; border-bottom-left-radius: 8px; border-bottom-right-radius: 8px; font-size: 0.9em;">
    <p>This is an automated email. Please do not reply directly.</p>
  </div>
</div>
`))

var adminTmpl = template.Must(template.New("admin").Parse(`
<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: auto; border: 1px solid #ddd; border-radius: 8px;">
  <div style="background-color: #333; color: white; padding: 20px; border-top-left-radius: 8px; border-top-right-radius: 8px;">
    <h1 style="margin: 0; text-align: center;">New Summit Registration</h1>
  </div>
  <div style="padding: 20px;">
    <p>A new participant has registered for the Youth Gita Summit 2025.</p>
    <table style="width: 100%; border-collapse: collapse; margin-top: 20px;">
      <tr style="border-bottom: 1px solid #ddd;"><td style="padding: 8px; font-weight: bold;">Name:</td><td style="padding: 8px;">{{.Name}}</td></tr>
      <tr style="border-bottom: 1px solid #ddd;"><td style="padding: 8px; font-weight: bold;">Email:</td><td style="padding: 8px;">{{.Email}}</td></tr>
      <tr style="border-bottom: 1px solid #ddd;"><td style="padding: 8px; font-weight: bold;">WhatsApp:</td><td style="padding: 8px;">{{.Whatsapp}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">Registration ID:</td><td style="padding: 8px;">{{.RegistrationID}}</td></tr>
    </table>
    <div style="text-align: center; margin-top: 20px;">
      <a href="{{.DashboardURL}}" style="background-color: {{.ThemeColor}}; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View Dashboard</a>
    </div>
  </div>
</div>
`))

// ParticipantEmail renders the confirmation message for the registrant.
func ParticipantEmail(to, name, registrationID string) (Message, error) {
	var b strings.Builder
	err := participantTmpl.Execute(&b, struct {
		ThemeColor     template.CSS
		Name           string
		RegistrationID string
	}{themeColor, name, registrationID})
	if err != nil {
		return Message{}, fmt.Errorf("render participant email: %w", err)
	}
	return Message{To: to, Subject: SubjectParticipant, HTML: b.String()}, nil
}

// AdminEmail renders the operations alert with a dashboard link.
func AdminEmail(to, name, email, whatsapp, registrationID, dashboardURL string) (Message, error) {
	var b strings.Builder
	err := adminTmpl.Execute(&b, struct {
		ThemeColor     template.CSS
		Name           string
		Email          string
		Whatsapp       string
		RegistrationID string
		DashboardURL   string
	}{themeColor, name, email, whatsapp, registrationID, dashboardURL})
	if err != nil {
		return Message{}, fmt.Errorf("render admin email: %w", err)
	}
	return Message{To: to, Subject: SubjectAdmin, HTML: b.String()}, nil
}
