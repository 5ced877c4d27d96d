// Package mailer sends transactional plain-text email over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"

	"creatorr/internal/config"
	"creatorr/internal/middleware"
)

// Mailer delivers email. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewSMTP builds a Mailer from config. When SMTP is not configured every
// Send fails with a clear error, callers decide whether that is fatal.
func NewSMTP(cfg *config.Config) Mailer {
	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &smtpMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPassword,
		from: from,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	if m.host == "" || m.port == "" || m.user == "" || m.pass == "" {
		return fmt.Errorf("smtp not configured")
	}

	msg := "From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n"

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg))
}

// SendAsync fires the mail off a goroutine. Delivery failures are logged and
// counted, they never fail the request that triggered them.
func SendAsync(m Mailer, to, subject, body string) {
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			middleware.MailSendFailures.Inc()
			middleware.Logger.Error("mail send failed", "to", to, "subject", subject, "error", err)
		}
	}()
}
