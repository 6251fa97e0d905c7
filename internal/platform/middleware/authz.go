// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/shopit/internal/platform/apperr"
	"github.com/taibuivan/shopit/internal/platform/constants"
	"github.com/taibuivan/shopit/internal/platform/ctxutil"
	"github.com/taibuivan/shopit/internal/platform/respond"
	"github.com/taibuivan/shopit/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// RevocationChecker reports whether a credential was invalidated by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticate extracts and verifies the credential of the caller.
//
// # Flow
//  1. Read 'Authorization: Bearer <token>', falling back to the token cookie.
//  2. If both are absent, the request proceeds as anonymous.
//  3. Verify the JWT via [TokenVerifier] and reject denylisted IDs.
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// A broken Authorization header is rejected with 401. A broken or revoked
// cookie is ignored so that a stale browser cookie never blocks login.
//
// # Parameters
//   - verifier: The TokenVerifier instance.
//   - revocations: Denylist lookup, may be nil.
func Authenticate(verifier TokenVerifier, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenStr, fromHeader, err := extractToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err == nil && revocations != nil {
				var revoked bool
				revoked, err = revocations.IsRevoked(request.Context(), claims.ID)
				if err != nil {
					ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "token_revocation_check_failed",
						slog.String("error", err.Error()),
					)
					respond.Error(writer, request, apperr.Store(err))
					return
				}
				if revoked {
					err = errTokenRevoked
				}
			}

			if err != nil {
				if fromHeader {
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
					return
				}
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			recordIdentity(request.Context(), claims.UserID)
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

var errTokenRevoked = apperr.Unauthorized("Token has been revoked")

// extractToken returns the raw credential and whether it came from the header.
func extractToken(request *http.Request) (string, bool, error) {
	if authHeader := request.Header.Get(constants.HeaderAuthorization); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return "", true, apperr.Unauthorized("Invalid authorization format")
		}
		return parts[1], true, nil
	}

	cookie, err := request.Cookie(constants.TokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", false, nil
	}
	return cookie.Value, false, nil
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Login first to access this resource"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It implies
// [RequireAuth] so you don't need to mount both.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Login first to access this resource"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !sec.UserRole(claims.Role).AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Role ("+claims.Role+") is not allowed to access this resource"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
