// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Security: JWT issuer and credential cookie configuration.
  - Headers & JSON fields shared by middleware and handlers.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "shopit-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 20 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	// It must leave room for an SMTP round-trip in the forgot-password flow.
	GlobalRequestTimeout = 15 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// StartupTimeout bounds the whole dependency bootstrap (DB, cache, migrations).
	StartupTimeout = 2 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "shopit.app"

	// TokenCookieName is the name of the cookie that carries the credential.
	TokenCookieName = "token"

	// TokenCookiePath is the scoped path for the credential cookie.
	TokenCookiePath = "/"
)

// # HTTP Headers

const (
	HeaderXRequestID      = "X-Request-ID"
	HeaderXRealIP         = "X-Real-IP"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderXForwardedProto = "X-Forwarded-Proto"
	HeaderOrigin          = "Origin"
	HeaderAuthorization   = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldSuccess = "success"
	FieldMessage = "message"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes

const (
	// RedisPrefixRevokedToken keys the denylist of logged-out credentials by jti.
	RedisPrefixRevokedToken = "auth:revoked_token:"
)
