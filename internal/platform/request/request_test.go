// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopit/internal/platform/apperr"
	"github.com/taibuivan/shopit/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/shopit/internal/platform/request"
	"github.com/taibuivan/shopit/internal/platform/sec"
)

/*
TestDecodeJSON covers valid and malformed payloads.
*/
func TestDecodeJSON(t *testing.T) {
	var target struct {
		Email string `json:"email"`
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com"}`))
	require.NoError(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target))
	assert.Equal(t, "a@x.com", target.Email)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	err := requestutil.DecodeJSON(httptest.NewRecorder(), request, &target)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestRequiredUserID checks claim extraction from the request context.
*/
func TestRequiredUserID(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	_, err := requestutil.RequiredUserID(request)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)

	ctx := ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "user-1"})
	userID, err := requestutil.RequiredUserID(request.WithContext(ctx))
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

/*
TestBaseURL covers configured, proxied and direct origins.
*/
func TestBaseURL(t *testing.T) {
	request := httptest.NewRequest(http.MethodPost, "http://shop.local:4000/api/v1/password/forgot", nil)

	assert.Equal(t, "https://shop.example", requestutil.BaseURL(request, "https://shop.example/"))
	assert.Equal(t, "http://shop.local:4000", requestutil.BaseURL(request, ""))

	request.Header.Set("X-Forwarded-Proto", "HTTPS, http")
	assert.Equal(t, "https://shop.local:4000", requestutil.BaseURL(request, ""))
}
