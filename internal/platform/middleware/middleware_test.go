// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/shopit/internal/platform/ctxutil"
	"github.com/taibuivan/shopit/internal/platform/middleware"
	"github.com/taibuivan/shopit/internal/platform/sec"
)

type stubVerifier struct {
	claims map[string]*sec.AuthClaims
}

func (verifier stubVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if claims, ok := verifier.claims[tokenStr]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (revocations stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return revocations.revoked[tokenID], revocations.err
}

func newVerifier() stubVerifier {
	claims := &sec.AuthClaims{UserID: "user-1", Role: "user"}
	claims.ID = "jti-1"
	admin := &sec.AuthClaims{UserID: "admin-1", Role: "admin"}
	admin.ID = "jti-2"
	return stubVerifier{claims: map[string]*sec.AuthClaims{"good": claims, "admin": admin}}
}

// echoUser writes the authenticated user id, or "anonymous".
var echoUser = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	if claims := ctxutil.GetAuthUser(request.Context()); claims != nil {
		_, _ = writer.Write([]byte(claims.UserID))
		return
	}
	_, _ = writer.Write([]byte("anonymous"))
})

/*
TestAuthenticate covers header, cookie, anonymous and revoked credentials.
*/
func TestAuthenticate(t *testing.T) {
	revocations := stubRevocations{revoked: map[string]bool{"jti-2": true}}
	handler := middleware.Authenticate(newVerifier(), revocations)(echoUser)

	tests := []struct {
		name   string
		header string
		cookie string
		status int
		body   string
	}{
		{name: "anonymous", status: http.StatusOK, body: "anonymous"},
		{name: "bearer_header", header: "Bearer good", status: http.StatusOK, body: "user-1"},
		{name: "cookie", cookie: "good", status: http.StatusOK, body: "user-1"},
		{name: "malformed_header", header: "Token good", status: http.StatusUnauthorized},
		{name: "invalid_header_token", header: "Bearer bad", status: http.StatusUnauthorized},
		{name: "revoked_header_token", header: "Bearer admin", status: http.StatusUnauthorized},
		{name: "invalid_cookie_is_ignored", cookie: "bad", status: http.StatusOK, body: "anonymous"},
		{name: "revoked_cookie_is_ignored", cookie: "admin", status: http.StatusOK, body: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, recorder.Body.String())
			}
		})
	}
}

/*
TestAuthenticate_RevocationStoreDown fails closed.
*/
func TestAuthenticate_RevocationStoreDown(t *testing.T) {
	handler := middleware.Authenticate(newVerifier(), stubRevocations{err: errors.New("redis down")})(echoUser)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	request.Header.Set("Authorization", "Bearer good")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

/*
TestRequireRole covers anonymous, insufficient and sufficient roles.
*/
func TestRequireRole(t *testing.T) {
	handler := middleware.Authenticate(newVerifier(), nil)(middleware.RequireRole(sec.RoleAdmin)(echoUser))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"user", "Bearer good", http.StatusForbidden},
		{"admin", "Bearer admin", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestRequireAuth rejects anonymous requests.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(echoUser)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"success":false`)
}

/*
TestCORS checks allowed, rejected and pre-flight origins.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(middleware.CORSPolicy{OriginSuffix: "shopit.app"})(echoUser)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Origin", "https://www.shopit.app")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "https://www.shopit.app", recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Origin", "https://evil.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set("Origin", "https://www.shopit.app")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

/*
TestPanicRecovery turns a panic into a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	handler := middleware.RequestID()(middleware.StructuredLogger(logger)(middleware.PanicRecovery(logger)(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
	)))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}

/*
TestRealIP prefers proxy headers over the remote address.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", middleware.RealIP(request))
}
