// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// defaultSendTimeout bounds a delivery when the caller's context has no deadline.
const defaultSendTimeout = 30 * time.Second

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPMailer is a [Mailer] backed by an SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates an SMTPMailer for cfg.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

/*
Send delivers message through the relay.

The whole SMTP conversation shares one deadline taken from ctx. STARTTLS is
used whenever the server advertises it, and PLAIN authentication only when
credentials are configured.
*/
func (mailer *SMTPMailer) Send(ctx context.Context, message Message) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultSendTimeout)
	}

	address := net.JoinHostPort(mailer.cfg.Host, strconv.Itoa(mailer.cfg.Port))
	dialer := &net.Dialer{Deadline: deadline}

	netConn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server %s: %w", address, err)
	}
	_ = netConn.SetDeadline(deadline)

	conn, err := smtp.NewClient(netConn, mailer.cfg.Host)
	if err != nil {
		_ = netConn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer conn.Close()

	if ok, _ := conn.Extension("STARTTLS"); ok {
		if err = conn.StartTLS(&tls.Config{ServerName: mailer.cfg.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if mailer.cfg.Username != "" && mailer.cfg.Password != "" {
		auth := smtp.PlainAuth("", mailer.cfg.Username, mailer.cfg.Password, mailer.cfg.Host)
		if err = conn.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate (user: %s): %w", mailer.cfg.Username, err)
		}
	}

	if err = conn.Mail(mailer.cfg.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender (%s): %w", mailer.cfg.FromEmail, err)
	}
	if err = conn.Rcpt(message.To); err != nil {
		return fmt.Errorf("failed to set recipient (%s): %w", message.To, err)
	}

	writer, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = writer.Write(mailer.compose(message)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return conn.Quit()
}

// compose renders headers and body as an RFC 5322 message.
func (mailer *SMTPMailer) compose(message Message) []byte {
	from := netmail.Address{Name: mailer.cfg.FromName, Address: mailer.cfg.FromEmail}

	var builder strings.Builder
	builder.WriteString("From: " + from.String() + "\r\n")
	builder.WriteString("To: " + message.To + "\r\n")
	builder.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", message.Subject) + "\r\n")
	builder.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(strings.ReplaceAll(message.Body, "\n", "\r\n"))

	return []byte(builder.String())
}
