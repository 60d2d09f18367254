// Package notify sends pipeline status emails over SMTP. Notifications
// are best effort: a failure is logged by the caller, never fatal.
package notify

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// Mailer holds the SMTP endpoint and credentials.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// FromEnv builds a mailer from SMTP_HOST, SMTP_PORT, SMTP_USERNAME,
// SMTP_PASSWORD and SMTP_FROM. Returns nil when no host is configured.
func FromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	username := os.Getenv("SMTP_USERNAME")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = username
	}
	return &Mailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     from,
	}
}

// Send delivers a plain-text message to one recipient.
func (m *Mailer) Send(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("no recipient configured")
	}

	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	addr := m.Host + ":" + m.Port
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail via %s: %w", addr, err)
	}
	return nil
}
