package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"lpfactory/config"
	"lpfactory/models"
)

// Mailer relays contact-form submissions to the tenant's notify address.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer() *Mailer {
	cfg := config.AppConfig
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.FromEmail,
	}
}

// Enabled reports whether SMTP is configured.
func (m *Mailer) Enabled() bool {
	return m.dialer.Host != ""
}

var formRelayTemplate = template.Must(template.New("form_relay").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New contact from your landing page</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .field { margin: 12px 0; }
        .field b { display: inline-block; min-width: 80px; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>New contact from your landing page</h2>
    </div>

    <div class="field"><b>Name:</b> {{.Name}}</div>
    <div class="field"><b>Email:</b> {{.Email}}</div>
    {{if .Phone}}<div class="field"><b>Phone:</b> {{.Phone}}</div>{{end}}
    <div class="field"><b>Message:</b><br>{{.Message}}</div>

    <div class="footer">
        <p>Sent by your landing page ({{.ClientKey}}{{if .LPKey}}/{{.LPKey}}{{end}}) · © {{.Year}} LP Factory</p>
    </div>
</body>
</html>`))

// SendFormSubmission relays one submission to the given address.
func (m *Mailer) SendFormSubmission(to string, sub *models.FormSubmission) error {
	if !m.Enabled() {
		return fmt.Errorf("SMTP not configured")
	}

	var body bytes.Buffer
	data := struct {
		*models.FormSubmission
		Year int
	}{sub, time.Now().Year()}
	if err := formRelayTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering relay email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Reply-To", sub.Email)
	msg.SetHeader("Subject", fmt.Sprintf("New contact: %s", sub.Name))
	msg.SetBody("text/html", body.String())

	return m.dialer.DialAndSend(msg)
}
