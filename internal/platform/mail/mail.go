// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers transactional email such as password reset links.

[SMTPMailer] sends through gomail. [LogMailer] writes the message to the log
instead and is wired when no SMTP host is configured, which keeps local
development free of external services.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends a [Message].
type Mailer interface {
	Send(context context.Context, message Message) error
}

// SMTPConfig configures [SMTPMailer].
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// dialer is the subset of *gomail.Dialer used here.
type dialer interface {
	DialAndSend(messages ...*gomail.Message) error
}

// SMTPMailer sends email over SMTP.
type SMTPMailer struct {
	from   string
	dialer dialer
}

// NewSMTPMailer builds a mailer for the given server.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Send delivers message. gomail takes no context, so cancellation is only
// checked before dialing.
func (mailer *SMTPMailer) Send(context context.Context, message Message) error {
	if err := context.Err(); err != nil {
		return err
	}

	if err := mailer.dialer.DialAndSend(mailer.build(message)); err != nil {
		return fmt.Errorf("mail: send to %s: %w", message.To, err)
	}
	return nil
}

func (mailer *SMTPMailer) build(message Message) *gomail.Message {
	envelope := gomail.NewMessage()
	envelope.SetHeader("From", mailer.from)
	envelope.SetHeader("To", message.To)
	envelope.SetHeader("Subject", message.Subject)
	envelope.SetBody("text/plain", message.Text)
	if message.HTML != "" {
		envelope.AddAlternative("text/html", message.HTML)
	}
	return envelope
}

// LogMailer logs messages instead of sending them.
type LogMailer struct{}

// Send writes the message to the request logger.
func (LogMailer) Send(context context.Context, message Message) error {
	ctxutil.GetLogger(context).InfoContext(context, "mail_not_sent_smtp_disabled",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Text),
	)
	return nil
}
