package notify

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/mail.v2"

	"github.com/shanehull/vyapar/internal/config"
)

// Sender delivers a rendered message.
type Sender interface {
	Send(msg *RenderedMessage) error
}

// EmailSender delivers messages via SMTP.
type EmailSender struct {
	cfg config.EmailConfig
	log logrus.FieldLogger
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg config.EmailConfig, log logrus.FieldLogger) *EmailSender {
	return &EmailSender{cfg: cfg, log: log}
}

// BuildMessage assembles the MIME message with an HTML body and plain text fallback.
func (s *EmailSender) BuildMessage(msg *RenderedMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Sender())
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" && msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
	} else {
		m.SetBody("text/plain", msg.Text)
	}
	return m
}

// Send is a no-op when SMTP is not configured.
func (s *EmailSender) Send(msg *RenderedMessage) error {
	if !s.cfg.Enabled() {
		return nil
	}

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(s.BuildMessage(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s (Subject: %s): %w", s.cfg.ToEmail, msg.Subject, err)
	}

	s.log.WithField("subject", msg.Subject).Info("Email sent")
	return nil
}
