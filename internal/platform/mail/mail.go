// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers transactional email (password recovery) to customers.

Implementations:

  - SMTPMailer: relays through an SMTP server, upgrading with STARTTLS when offered.
  - LogMailer: writes the message to the structured log, for development setups
    without a relay.

Delivery failures are returned to the caller unchanged so that the calling flow
can roll back whatever it prepared for the message.
*/
package mail

import (
	"context"
	"log/slog"
)

// Message is a single plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a [Message].
type Mailer interface {
	Send(ctx context.Context, message Message) error
}

// LogMailer is a [Mailer] that logs messages instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer writing to logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message at info level. It never fails.
func (mailer *LogMailer) Send(ctx context.Context, message Message) error {
	mailer.logger.InfoContext(ctx, "mail_not_configured_message_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	return nil
}
