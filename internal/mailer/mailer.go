// Package mailer sends notification emails over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Message is a single email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds SMTP server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer implements Mailer with gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates an SMTPMailer. Host and From are required.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("SMTP host must be provided")
	}
	if cfg.From == "" {
		return nil, errors.New("sender email address cannot be empty")
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

// Send delivers msg. The body is sent as HTML when it looks like markup.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	gm, err := m.build(msg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) build(msg Message) (*gomail.Message, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("recipient email address cannot be empty")
	}
	if msg.Subject == "" {
		return nil, errors.New("email subject cannot be empty")
	}

	contentType := "text/plain"
	lower := strings.ToLower(msg.Body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html"
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody(contentType, msg.Body)
	return gm, nil
}

// NoopMailer discards messages. Used when SMTP is not configured.
type NoopMailer struct{}

func (NoopMailer) Send(context.Context, Message) error { return nil }
