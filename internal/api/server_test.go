// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopit/internal/api"
	"github.com/taibuivan/shopit/internal/platform/config"
	"github.com/taibuivan/shopit/internal/platform/constants"
	"github.com/taibuivan/shopit/internal/users/account"
	"github.com/taibuivan/shopit/internal/users/admin"
	"github.com/taibuivan/shopit/internal/users/auth"
	"github.com/taibuivan/shopit/internal/users/auth/authtest"
)

func newTestServer(t *testing.T, dependencies ...api.Dependency) (*api.Server, *authtest.UserRepository) {
	t.Helper()
	logger := authtest.DiscardLogger()
	tokens := authtest.TokenService()
	users := authtest.NewUserRepository()
	revocations := authtest.NewRevocationStore()
	issuer := auth.NewIssuer(tokens, time.Hour)
	sessions := auth.SessionWriter{CookieTTL: time.Hour}

	authService := auth.NewService(users, revocations, issuer, &authtest.Mailer{}, 0, logger)

	cfg := &config.Config{ServerPort: "0", Environment: "development", AllowedOriginSuffix: "shopit.app"}
	server := api.NewServer(cfg, logger, api.Security{Verifier: tokens, Revocations: revocations}, api.Handlers{
		Health:  api.NewHealthHandler(logger, dependencies...),
		Auth:    auth.NewHandler(authService, sessions, ""),
		Account: account.NewHandler(account.NewService(users, issuer, logger), sessions),
		Admin:   admin.NewHandler(admin.NewService(users, logger)),
	})
	return server, users
}

func send(handler http.Handler, method, path, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	var payload map[string]any
	_ = json.Unmarshal(recorder.Body.Bytes(), &payload)
	return recorder, payload
}

/*
TestServer_Probes checks liveness and the readiness aggregation.
*/
func TestServer_Probes(t *testing.T) {
	healthy := api.Dependency{Name: "store", Ping: func(context.Context) error { return nil }}
	broken := api.Dependency{Name: "redis", Ping: func(context.Context) error { return errors.New("dial tcp: refused") }}

	server, _ := newTestServer(t, healthy)
	recorder, payload := send(server.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ok", payload["status"])

	recorder, payload = send(server.Handler(), http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ready", payload["status"])

	server, _ = newTestServer(t, healthy, broken)
	recorder, payload = send(server.Handler(), http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "degraded", payload["status"])
	assert.Len(t, payload["checks"], 2)
}

/*
TestServer_CookieSession follows a browser session from registration to logout.
*/
func TestServer_CookieSession(t *testing.T) {
	server, users := newTestServer(t)
	handler := server.Handler()

	recorder, _ := send(handler, http.MethodPost, "/api/v1/register", `{"name":"A","email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, 1, users.Len())

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	session := cookies[0]

	recorder, payload := send(handler, http.MethodGet, "/api/v1/me", "", session)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "a@x.com", payload["user"].(map[string]any)["email"])
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))

	recorder, _ = send(handler, http.MethodGet, "/api/v1/admin/users", "", session)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder, _ = send(handler, http.MethodPut, "/api/v1/password/update", `{"oldPassword":"bad","password":"secret2"}`, session)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder, payload = send(handler, http.MethodGet, "/api/v1/logout", "", session)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, auth.MsgLoggedOut, payload["message"])

	// The revoked cookie now counts as anonymous.
	recorder, payload = send(handler, http.MethodGet, "/api/v1/me", "", session)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Login first to access this resource", payload["message"])

	recorder, _ = send(handler, http.MethodPost, "/api/v1/login", `{"email":"a@x.com","password":"secret1"}`, session)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestServer_UnknownRoute answers 404 for paths outside the API.
*/
func TestServer_UnknownRoute(t *testing.T) {
	server, _ := newTestServer(t)
	recorder, _ := send(server.Handler(), http.MethodGet, "/api/v1/products", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
