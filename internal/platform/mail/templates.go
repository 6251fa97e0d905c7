// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

// PasswordResetSubject is the subject line of the recovery email.
const PasswordResetSubject = "ShopIt password recovery"

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(
	`Your password reset token is as follow:

{{.ResetURL}}

This link expires in {{.Minutes}} minutes.

If you have not requested this email, then ignore it.
`))

// PasswordResetData feeds the recovery email template.
type PasswordResetData struct {
	ResetURL string
	ValidFor time.Duration
}

// Minutes returns ValidFor rounded down to whole minutes.
func (data PasswordResetData) Minutes() int {
	return int(data.ValidFor / time.Minute)
}

// PasswordReset renders the recovery email for recipient.
func PasswordReset(recipient string, data PasswordResetData) (Message, error) {
	var body bytes.Buffer
	if err := passwordResetTemplate.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("failed to render password reset template: %w", err)
	}

	return Message{
		To:      recipient,
		Subject: PasswordResetSubject,
		Body:    body.String(),
	}, nil
}
