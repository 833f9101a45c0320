// Package notifier sends appointment emails. Delivery is best-effort:
// callers log failures and move on, so nothing here may panic or block
// forever.
package notifier

import (
	"bytes"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"text/template"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

type mailTemplate struct {
	subject string
	body    *template.Template
}

// One template per appointment status, plus the booking confirmation.
// Template names line up with the workflow's template constants.
var templates = map[string]mailTemplate{
	"scheduled": {
		subject: "Viewing request received",
		body: mustParse("scheduled",
			"Your viewing request for {{.property}} on {{.date}} at {{.time}} has been received. We'll let you know once it's confirmed.\n"),
	},
	"pending": {
		subject: "Viewing appointment pending",
		body: mustParse("pending",
			"Your viewing on {{.date}} at {{.time}} is back in the pending queue. We'll follow up shortly.\n"),
	},
	"confirmed": {
		subject: "Viewing appointment confirmed",
		body: mustParse("confirmed",
			"Your viewing on {{.date}} at {{.time}} is confirmed.{{if .meetingLink}} Join here: {{.meetingLink}}{{end}}\n"),
	},
	"cancelled": {
		subject: "Viewing appointment cancelled",
		body: mustParse("cancelled",
			"Your viewing on {{.date}} at {{.time}} has been cancelled.{{if .reason}} Reason: {{.reason}}{{end}}\n"),
	},
	"completed": {
		subject: "Thanks for visiting",
		body: mustParse("completed",
			"Your viewing on {{.date}} at {{.time}} is marked completed. We'd love your feedback.\n"),
	},
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}

// SMTPMailer sends mail through a plain SMTP relay configured from the
// environment.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewFromEnv builds a mailer from SMTP_HOST/SMTP_PORT/SMTP_USER/
// SMTP_PASS/SMTP_FROM. When SMTP_HOST is unset it returns a log-only
// mailer, which keeps development setups mail-free.
func NewFromEnv() workflow.Notifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, emails will only be logged")
		return &LogMailer{}
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &SMTPMailer{
		host: host,
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: os.Getenv("SMTP_FROM"),
	}
}

func (m *SMTPMailer) Send(toEmail, tmpl string, data map[string]string) error {
	t, ok := templates[tmpl]
	if !ok {
		return fmt.Errorf("unknown mail template %q", tmpl)
	}

	var body bytes.Buffer
	fmt.Fprintf(&body, "From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n", m.from, toEmail, t.subject)
	if err := t.body.Execute(&body, data); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{toEmail}, body.Bytes())
}

// LogMailer writes the would-be email to the log instead of sending it.
type LogMailer struct{}

func (m *LogMailer) Send(toEmail, tmpl string, data map[string]string) error {
	t, ok := templates[tmpl]
	if !ok {
		return fmt.Errorf("unknown mail template %q", tmpl)
	}
	var body bytes.Buffer
	if err := t.body.Execute(&body, data); err != nil {
		return err
	}
	log.Printf("mail (not sent) to=%s subject=%q body=%q", toEmail, t.subject, body.String())
	return nil
}
