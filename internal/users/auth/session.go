// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/taibuivan/shopit/internal/platform/constants"
	"github.com/taibuivan/shopit/internal/platform/respond"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - name: The display name of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, name, role string, timeToLive time.Duration) (string, error)
}

// Session is a freshly issued credential together with the user it identifies.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Issuer turns an authenticated [User] into a [Session].
type Issuer struct {
	provider   TokenProvider
	timeToLive time.Duration
}

// NewIssuer builds an Issuer whose credentials live for timeToLive.
func NewIssuer(provider TokenProvider, timeToLive time.Duration) *Issuer {
	return &Issuer{provider: provider, timeToLive: timeToLive}
}

// Issue signs a credential for user.
func (issuer *Issuer) Issue(user *User) (*Session, error) {
	issuedAt := time.Now()

	token, err := issuer.provider.GenerateAccessToken(user.ID, user.Name, string(user.Role), issuer.timeToLive)
	if err != nil {
		return nil, fmt.Errorf("auth_issue_token_failed: %w", err)
	}

	return &Session{
		Token:     token,
		ExpiresAt: issuedAt.Add(issuer.timeToLive),
		User:      user,
	}, nil
}

// # Transport

// SessionWriter attaches credentials to HTTP responses.
//
// Every operation that issues a credential answers the same way: the token in
// an HttpOnly cookie and again in the JSON body next to the user.
type SessionWriter struct {
	// CookieTTL is the lifetime of the credential cookie.
	CookieTTL time.Duration
	// Secure restricts the cookie to HTTPS.
	Secure bool
}

// Send writes a 200 envelope {success, token, user} and sets the cookie.
func (sessions SessionWriter) Send(writer http.ResponseWriter, session *Session) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.TokenCookieName,
		Value:    session.Token,
		Path:     constants.TokenCookiePath,
		Expires:  time.Now().Add(sessions.CookieTTL),
		Secure:   sessions.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.OK(writer, respond.Fields{
		FieldToken: session.Token,
		FieldUser:  session.User,
	})
}

// Clear expires the credential cookie immediately.
func (sessions SessionWriter) Clear(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.TokenCookieName,
		Value:    "",
		Path:     constants.TokenCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   sessions.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
